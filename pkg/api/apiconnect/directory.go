package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/pkg/api"
)

// DirectoryServiceName is the fully-qualified name of the DirectoryService service.
const DirectoryServiceName = "ledgerly.v1.DirectoryService"

const (
	DirectoryServiceCreateUserProcedure        = "/ledgerly.v1.DirectoryService/CreateUser"
	DirectoryServiceGetUserProcedure           = "/ledgerly.v1.DirectoryService/GetUser"
	DirectoryServiceListUsersProcedure         = "/ledgerly.v1.DirectoryService/ListUsers"
	DirectoryServiceCreateGroupProcedure       = "/ledgerly.v1.DirectoryService/CreateGroup"
	DirectoryServiceGetGroupProcedure          = "/ledgerly.v1.DirectoryService/GetGroup"
	DirectoryServiceListGroupsProcedure        = "/ledgerly.v1.DirectoryService/ListGroups"
	DirectoryServiceAddGroupMembersProcedure   = "/ledgerly.v1.DirectoryService/AddGroupMembers"
	DirectoryServiceRemoveGroupMemberProcedure = "/ledgerly.v1.DirectoryService/RemoveGroupMember"
	DirectoryServiceCreateCategoryProcedure    = "/ledgerly.v1.DirectoryService/CreateCategory"
	DirectoryServiceListCategoriesProcedure    = "/ledgerly.v1.DirectoryService/ListCategories"
)

// DirectoryServiceClient is a client for the ledgerly.v1.DirectoryService service.
type DirectoryServiceClient interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error)
	RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewDirectoryServiceClient constructs a client for the
// ledgerly.v1.DirectoryService service.
func NewDirectoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DirectoryServiceClient {
	opts = clientOptions(opts)
	return &directoryServiceClient{
		createUser:        connect.NewClient[api.CreateUserRequest, api.CreateUserResponse](httpClient, baseURL+DirectoryServiceCreateUserProcedure, opts...),
		getUser:           connect.NewClient[api.GetUserRequest, api.GetUserResponse](httpClient, baseURL+DirectoryServiceGetUserProcedure, opts...),
		listUsers:         connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+DirectoryServiceListUsersProcedure, opts...),
		createGroup:       connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+DirectoryServiceCreateGroupProcedure, opts...),
		getGroup:          connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+DirectoryServiceGetGroupProcedure, opts...),
		listGroups:        connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+DirectoryServiceListGroupsProcedure, opts...),
		addGroupMembers:   connect.NewClient[api.AddGroupMembersRequest, api.AddGroupMembersResponse](httpClient, baseURL+DirectoryServiceAddGroupMembersProcedure, opts...),
		removeGroupMember: connect.NewClient[api.RemoveGroupMemberRequest, api.RemoveGroupMemberResponse](httpClient, baseURL+DirectoryServiceRemoveGroupMemberProcedure, opts...),
		createCategory:    connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+DirectoryServiceCreateCategoryProcedure, opts...),
		listCategories:    connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+DirectoryServiceListCategoriesProcedure, opts...),
	}
}

type directoryServiceClient struct {
	createUser        *connect.Client[api.CreateUserRequest, api.CreateUserResponse]
	getUser           *connect.Client[api.GetUserRequest, api.GetUserResponse]
	listUsers         *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups        *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	addGroupMembers   *connect.Client[api.AddGroupMembersRequest, api.AddGroupMembersResponse]
	removeGroupMember *connect.Client[api.RemoveGroupMemberRequest, api.RemoveGroupMemberResponse]
	createCategory    *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	listCategories    *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
}

func (c *directoryServiceClient) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *directoryServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *directoryServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *directoryServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *directoryServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *directoryServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *directoryServiceClient) AddGroupMembers(ctx context.Context, req *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error) {
	return c.addGroupMembers.CallUnary(ctx, req)
}

func (c *directoryServiceClient) RemoveGroupMember(ctx context.Context, req *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	return c.removeGroupMember.CallUnary(ctx, req)
}

func (c *directoryServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *directoryServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

// DirectoryServiceHandler is implemented by the server side of ledgerly.v1.DirectoryService.
type DirectoryServiceHandler interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error)
	RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewDirectoryServiceHandler builds an HTTP handler from the service
// implementation and returns the path to mount it on.
func NewDirectoryServiceHandler(svc DirectoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + DirectoryServiceName + "/", procedureMux{
		DirectoryServiceCreateUserProcedure:        connect.NewUnaryHandler(DirectoryServiceCreateUserProcedure, svc.CreateUser, opts...),
		DirectoryServiceGetUserProcedure:           connect.NewUnaryHandler(DirectoryServiceGetUserProcedure, svc.GetUser, opts...),
		DirectoryServiceListUsersProcedure:         connect.NewUnaryHandler(DirectoryServiceListUsersProcedure, svc.ListUsers, opts...),
		DirectoryServiceCreateGroupProcedure:       connect.NewUnaryHandler(DirectoryServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		DirectoryServiceGetGroupProcedure:          connect.NewUnaryHandler(DirectoryServiceGetGroupProcedure, svc.GetGroup, opts...),
		DirectoryServiceListGroupsProcedure:        connect.NewUnaryHandler(DirectoryServiceListGroupsProcedure, svc.ListGroups, opts...),
		DirectoryServiceAddGroupMembersProcedure:   connect.NewUnaryHandler(DirectoryServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts...),
		DirectoryServiceRemoveGroupMemberProcedure: connect.NewUnaryHandler(DirectoryServiceRemoveGroupMemberProcedure, svc.RemoveGroupMember, opts...),
		DirectoryServiceCreateCategoryProcedure:    connect.NewUnaryHandler(DirectoryServiceCreateCategoryProcedure, svc.CreateCategory, opts...),
		DirectoryServiceListCategoriesProcedure:    connect.NewUnaryHandler(DirectoryServiceListCategoriesProcedure, svc.ListCategories, opts...),
	}
}

// UnimplementedDirectoryServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDirectoryServiceHandler struct{}

func (UnimplementedDirectoryServiceHandler) CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return nil, unimplemented(DirectoryServiceCreateUserProcedure)
}

func (UnimplementedDirectoryServiceHandler) GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return nil, unimplemented(DirectoryServiceGetUserProcedure)
}

func (UnimplementedDirectoryServiceHandler) ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return nil, unimplemented(DirectoryServiceListUsersProcedure)
}

func (UnimplementedDirectoryServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, unimplemented(DirectoryServiceCreateGroupProcedure)
}

func (UnimplementedDirectoryServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, unimplemented(DirectoryServiceGetGroupProcedure)
}

func (UnimplementedDirectoryServiceHandler) ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return nil, unimplemented(DirectoryServiceListGroupsProcedure)
}

func (UnimplementedDirectoryServiceHandler) AddGroupMembers(context.Context, *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error) {
	return nil, unimplemented(DirectoryServiceAddGroupMembersProcedure)
}

func (UnimplementedDirectoryServiceHandler) RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	return nil, unimplemented(DirectoryServiceRemoveGroupMemberProcedure)
}

func (UnimplementedDirectoryServiceHandler) CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return nil, unimplemented(DirectoryServiceCreateCategoryProcedure)
}

func (UnimplementedDirectoryServiceHandler) ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return nil, unimplemented(DirectoryServiceListCategoriesProcedure)
}
