package models

// UserStatus is the insurance status shown on the users table
type UserStatus string

const (
	UserStatusNotApplied  UserStatus = "NotApplied"
	UserStatusPending     UserStatus = "Pending"
	UserStatusApproved    UserStatus = "Approved"
	UserStatusRejected    UserStatus = "Rejected"
	UserStatusSurrendered UserStatus = "Surrendered"
)

// RoleAdmin is the only role allowed to open a dashboard session
const RoleAdmin = "admin"

// Address is a creator's postal address
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// PersonalInfo holds creator contact details
type PersonalInfo struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	Country     string  `json:"country,omitempty"`
	Address     Address `json:"address"`
}

// FullName joins first and last name
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// InsuranceStatus is the insurance state of a creator
type InsuranceStatus struct {
	Status         string `json:"status"`
	CoveragePeriod int    `json:"coveragePeriod,omitempty"`
}

// UserPremium is the premium summary embedded in a user row
type UserPremium struct {
	FinalAmount float64 `json:"finalAmount"`
}

// User is a row of the users table
type User struct {
	ID                  string          `json:"_id"`
	PersonalInfo        PersonalInfo    `json:"personalInfo"`
	Role                string          `json:"role"`
	IsVerified          bool            `json:"isVerified"`
	InsuranceStatus     InsuranceStatus `json:"insuranceStatus"`
	Premium             *UserPremium    `json:"premium,omitempty"`
	ClaimsCount         int             `json:"claimsCount"`
	ContentReviewsCount int             `json:"contentReviewsCount"`
	RecentRiskLevel     string          `json:"recentRiskLevel,omitempty"`
	CreatedAt           string          `json:"createdAt,omitempty"`
}

// UserDetails is the payload of the single-user endpoint
type UserDetails struct {
	User           User             `json:"user"`
	ContentReviews []map[string]any `json:"contentReviews,omitempty"`
}

// UserUpdate is the body of PUT /admin-auth/admin/users/:id
type UserUpdate struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	IsVerified   bool         `json:"isVerified"`
	Role         string       `json:"role"`
}

// AuthUser is the user object returned by the login endpoint
type AuthUser struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the response of POST /auth/login
type LoginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    AuthUser `json:"user"`
	Error   string   `json:"error,omitempty"`
}
