package api

// Expense is a stored expense with its per-participant shares.
type Expense struct {
	ID                 string  `json:"id"`
	Amount             string  `json:"amount"`
	PayerID            string  `json:"payerId"`
	CategoryID         string  `json:"categoryId,omitempty"`
	Memo               string  `json:"memo,omitempty"`
	Date               string  `json:"date"`
	GroupID            string  `json:"groupId,omitempty"`
	RecurringPaymentID string  `json:"recurringPaymentId,omitempty"`
	Shares             []Share `json:"shares"`
	CreatedAt          int64   `json:"createdAt"`
	UpdatedAt          int64   `json:"updatedAt"`
}

// Share is one participant's owed part of an expense.
type Share struct {
	UserID     string `json:"userId"`
	OwedAmount string `json:"owedAmount"`
}

// Settlement is a recorded payment between two users.
type Settlement struct {
	ID         string `json:"id"`
	GroupID    string `json:"groupId,omitempty"`
	PayerID    string `json:"payerId"`
	ReceiverID string `json:"receiverId"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Memo       string `json:"memo,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

// Balance is a user's net position in one scope. Positive means the user is owed.
type Balance struct {
	UserID    string `json:"userId"`
	GroupID   string `json:"groupId,omitempty"`
	Amount    string `json:"amount"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Transfer is a suggested payment that clears balances.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	CreatedAt int64    `json:"createdAt"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// RecurringPayment is a recurring expense definition. NextDue is empty once
// the definition is inactive.
type RecurringPayment struct {
	ID           string   `json:"id"`
	Amount       string   `json:"amount"`
	PayerID      string   `json:"payerId"`
	Participants []string `json:"participants,omitempty"`
	CategoryID   string   `json:"categoryId,omitempty"`
	Memo         string   `json:"memo,omitempty"`
	GroupID      string   `json:"groupId,omitempty"`
	Frequency    string   `json:"frequency"`
	Interval     int      `json:"interval"`
	StartDate    string   `json:"startDate"`
	NextDue      string   `json:"nextDue,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Active       bool     `json:"active"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// Ledger service

type CreateExpenseRequest struct {
	Amount       string   `json:"amount"`
	PayerID      string   `json:"payerId"`
	Participants []string `json:"participants"`
	CategoryID   string   `json:"categoryId,omitempty"`
	Memo         string   `json:"memo,omitempty"`
	// Date defaults to today when empty.
	Date    string `json:"date,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest lists a group's expenses, or personal ones when GroupID is nil.
type ListExpensesRequest struct {
	GroupID *string `json:"groupId,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// EditExpenseRequest changes the set fields of an expense.
type EditExpenseRequest struct {
	ID           string   `json:"id"`
	Amount       *string  `json:"amount,omitempty"`
	PayerID      *string  `json:"payerId,omitempty"`
	Participants []string `json:"participants,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	Memo         *string  `json:"memo,omitempty"`
	Date         *string  `json:"date,omitempty"`
	GroupID      *string  `json:"groupId,omitempty"`
}

type EditExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

type CreateSettlementRequest struct {
	Amount     string `json:"amount"`
	PayerID    string `json:"payerId"`
	ReceiverID string `json:"receiverId"`
	GroupID    string `json:"groupId,omitempty"`
	Date       string `json:"date,omitempty"`
	Memo       string `json:"memo,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetSettlementRequest struct {
	ID string `json:"id"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID *string `json:"groupId,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	ID string `json:"id"`
}

type DeleteSettlementResponse struct{}

type GetBalancesRequest struct {
	GroupID *string `json:"groupId,omitempty"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSettlementSuggestionsRequest struct {
	GroupID *string `json:"groupId,omitempty"`
}

type GetSettlementSuggestionsResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

type RecalculateAllRequest struct{}

type RecalculateAllResponse struct{}

// Directory service

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	ID string `json:"id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"groupId"`
	UserIDs []string `json:"userIds"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}

type RemoveGroupMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveGroupMemberResponse struct {
	Group *Group `json:"group"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

// Recurring service

type CreateRecurringPaymentRequest struct {
	Amount       string   `json:"amount"`
	PayerID      string   `json:"payerId"`
	Participants []string `json:"participants,omitempty"`
	CategoryID   string   `json:"categoryId,omitempty"`
	Memo         string   `json:"memo,omitempty"`
	GroupID      string   `json:"groupId,omitempty"`
	// Frequency is one of day, week, month, year.
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type CreateRecurringPaymentResponse struct {
	RecurringPayment *RecurringPayment `json:"recurringPayment"`
}

type GetRecurringPaymentRequest struct {
	ID string `json:"id"`
}

type GetRecurringPaymentResponse struct {
	RecurringPayment *RecurringPayment `json:"recurringPayment"`
}

// ListRecurringPaymentsRequest lists definitions of one group, the personal
// context when GroupID is "", or every scope when GroupID is nil.
type ListRecurringPaymentsRequest struct {
	GroupID *string `json:"groupId,omitempty"`
}

type ListRecurringPaymentsResponse struct {
	RecurringPayments []*RecurringPayment `json:"recurringPayments"`
}

type UpdateRecurringPaymentRequest struct {
	ID           string   `json:"id"`
	Amount       *string  `json:"amount,omitempty"`
	Participants []string `json:"participants,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	Memo         *string  `json:"memo,omitempty"`
	EndDate      *string  `json:"endDate,omitempty"`
	ClearEndDate bool     `json:"clearEndDate,omitempty"`
}

type UpdateRecurringPaymentResponse struct {
	RecurringPayment *RecurringPayment `json:"recurringPayment"`
}

type DeactivateRecurringPaymentRequest struct {
	ID string `json:"id"`
}

type DeactivateRecurringPaymentResponse struct {
	RecurringPayment *RecurringPayment `json:"recurringPayment"`
}

type DeleteRecurringPaymentRequest struct {
	ID string `json:"id"`
}

type DeleteRecurringPaymentResponse struct{}

// ProcessDuePaymentsRequest runs one scheduler pass synchronously. AsOf
// defaults to today; GroupID follows ListRecurringPaymentsRequest.
type ProcessDuePaymentsRequest struct {
	AsOf    string  `json:"asOf,omitempty"`
	GroupID *string `json:"groupId,omitempty"`
}

type ProcessDuePaymentsResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// WakeRequest asks the background runner for an extra pass.
type WakeRequest struct{}

type WakeResponse struct {
	// Queued is false when no background runner is configured.
	Queued bool `json:"queued"`
}
