package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	AssignedUserIDs []string  `json:"assignedUserIds,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=USER ADMIN SUPERADMIN"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=USER ADMIN SUPERADMIN"`
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

type SetAssignedUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

// ============================================
// Lead DTOs
// ============================================

type LeadRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"omitempty,email"`
	Phone        string     `json:"phone"`
	Company      string     `json:"company"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
}

type LeadResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"ownerId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Company      string     `json:"company"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type LeadListQuery struct {
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"pageSize,default=10"`
	Search    string `form:"search"`
	SortField string `form:"sortField,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
	Scope     string `form:"scope,default=all"`
	Owner     string `form:"owner"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	Status    string `form:"status"`
}

type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

// ============================================
// Assignment DTOs
// ============================================

type AssignRowRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type BulkAssignRequest struct {
	AssigneeID string             `json:"assigneeId" binding:"required"`
	Rows       []AssignRowRequest `json:"rows" binding:"required"`
}

type UpdateRecordStatusRequest struct {
	// Empty clears the label.
	Status string `json:"status"`
}

type AssignedRecordResponse struct {
	ID         string    `json:"id"`
	AssignerID string    `json:"assignerId"`
	AssigneeID string    `json:"assigneeId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CampaignIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CampaignGroupResponse struct {
	ID          string                   `json:"id"`
	Assigner    CampaignIdentity         `json:"assigner"`
	Assignee    CampaignIdentity         `json:"assignee"`
	RecordCount int                      `json:"recordCount"`
	CreatedAt   time.Time                `json:"createdAt"`
	MemberIDs   []string                 `json:"memberIds,omitempty"`
	Records     []AssignedRecordResponse `json:"records,omitempty"`
}

type CampaignPagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type CampaignListResponse struct {
	Groups     []CampaignGroupResponse `json:"groups"`
	Pagination CampaignPagination      `json:"pagination"`
}
