// Package models defines API request and response shapes
package models

import "time"

// APIError is the uniform error body returned by every endpoint.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ============================================
// Workspace
// ============================================

type CreateWorkspaceRequest struct {
	Name      string `json:"name" binding:"required"`
	OwnerID   string `json:"ownerId" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type WorkspaceResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	OwnerID   string        `json:"ownerId"`
	IsDefault bool          `json:"isDefault"`
	Owner     *UserRef      `json:"owner,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type WorkspaceListResponse struct {
	Items    []WorkspaceResponse `json:"items"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

type WorkspaceDetailResponse struct {
	WorkspaceResponse
	Members            []MemberResponse     `json:"members"`
	PendingInvitations []InvitationResponse `json:"pendingInvitations"`
}

// ============================================
// Members
// ============================================

type MemberResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	UserID      string    `json:"userId"`
	User        *UserRef  `json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ============================================
// Invitations
// ============================================

type InviteRequest struct {
	Email       string `json:"email" binding:"required"`
	InvitedByID string `json:"invitedById" binding:"required"`
}

type AcceptInvitationRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type InvitationResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	WorkspaceID string    `json:"workspaceId"`
	Token       string    `json:"token,omitempty"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResolveInvitationResponse is the public view of an invitation, shown to the
// invitee before they have an account. The token is never echoed back.
type ResolveInvitationResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Status    string        `json:"status"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Workspace *WorkspaceRef `json:"workspace"`
	InvitedBy *UserRef      `json:"invitedBy"`
}

type WorkspaceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ============================================
// Users
// ============================================

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Admin bool   `json:"admin"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
	Admin  *bool   `json:"admin"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserResponse struct {
	User             UserResponse      `json:"user"`
	DefaultWorkspace WorkspaceResponse `json:"defaultWorkspace"`
}

type UserListResponse struct {
	Items    []UserResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// ============================================
// Settings
// ============================================

type SettingsResponse struct {
	ID                string    `json:"id"`
	WorkspacesEnabled bool      `json:"workspacesEnabled"`
	InstanceName      *string   `json:"instanceName"`
	PasswordMinLength int       `json:"passwordMinLength"`
	RequireSpecial    bool      `json:"requireSpecial"`
	RequireNumber     bool      `json:"requireNumber"`
	RequireUppercase  bool      `json:"requireUppercase"`
	RequireLowercase  bool      `json:"requireLowercase"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type UpdateGeneralSettingsRequest struct {
	InstanceName *string `json:"instanceName"`
}

type UpdateWorkspaceSettingsRequest struct {
	WorkspacesEnabled *bool `json:"workspacesEnabled" binding:"required"`
}

type UpdatePasswordPolicyRequest struct {
	MinLength        *int  `json:"minLength"`
	RequireSpecial   *bool `json:"requireSpecial"`
	RequireNumber    *bool `json:"requireNumber"`
	RequireUppercase *bool `json:"requireUppercase"`
	RequireLowercase *bool `json:"requireLowercase"`
}
