package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/pkg/api"
	"github.com/mmynk/ledgerly/pkg/api/apiconnect"
)

// DirectoryService implements the Connect DirectoryService
type DirectoryService struct {
	apiconnect.UnimplementedDirectoryServiceHandler
	ledger *ledger.Ledger
}

// NewDirectoryService creates a new DirectoryService over l.
func NewDirectoryService(l *ledger.Ledger) *DirectoryService {
	return &DirectoryService{ledger: l}
}

// CreateUser creates a new user.
func (s *DirectoryService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	user, err := s.ledger.CreateUser(ctx, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, toConnectError("CreateUser", err)
	}

	slog.Info("User created", "user_id", user.ID)
	return connect.NewResponse(&api.CreateUserResponse{User: toAPIUser(user)}), nil
}

// GetUser retrieves a user by ID.
func (s *DirectoryService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	slog.Info("GetUser request received", "user_id", req.Msg.ID)

	user, err := s.ledger.GetUser(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("GetUser", err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// ListUsers lists all users.
func (s *DirectoryService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	slog.Info("ListUsers request received")

	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return nil, toConnectError("ListUsers", err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// CreateGroup creates a new group.
func (s *DirectoryService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	group, err := s.ledger.CreateGroup(ctx, req.Msg.Name, req.Msg.MemberIDs)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *DirectoryService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.ID)

	group, err := s.ledger.GetGroup(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups lists all groups.
func (s *DirectoryService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.ledger.ListGroups(ctx)
	if err != nil {
		return nil, toConnectError("ListGroups", err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddGroupMembers adds users to a group. Existing members are ignored.
func (s *DirectoryService) AddGroupMembers(ctx context.Context, req *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error) {
	slog.Info("AddGroupMembers request received",
		"group_id", req.Msg.GroupID,
		"users_count", len(req.Msg.UserIDs),
	)

	group, err := s.ledger.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.UserIDs)
	if err != nil {
		return nil, toConnectError("AddGroupMembers", err)
	}
	return connect.NewResponse(&api.AddGroupMembersResponse{Group: toAPIGroup(group)}), nil
}

// RemoveGroupMember removes a user whose balance in the group is zero.
func (s *DirectoryService) RemoveGroupMember(ctx context.Context, req *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	slog.Info("RemoveGroupMember request received",
		"group_id", req.Msg.GroupID,
		"user_id", req.Msg.UserID,
	)

	group, err := s.ledger.RemoveGroupMember(ctx, req.Msg.GroupID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError("RemoveGroupMember", err)
	}
	return connect.NewResponse(&api.RemoveGroupMemberResponse{Group: toAPIGroup(group)}), nil
}

// CreateCategory creates an expense category.
func (s *DirectoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	slog.Info("CreateCategory request received", "name", req.Msg.Name)

	category, err := s.ledger.CreateCategory(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError("CreateCategory", err)
	}
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// ListCategories lists all categories.
func (s *DirectoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	slog.Info("ListCategories request received")

	categories, err := s.ledger.ListCategories(ctx)
	if err != nil {
		return nil, toConnectError("ListCategories", err)
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = toAPICategory(c)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}
