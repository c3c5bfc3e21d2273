package entities

import (
	"time"

	"github.com/google/uuid"
)

// Mentee represents a mentored customer tracked by the CRM
type Mentee struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FullName   string     `json:"full_name" gorm:"type:varchar(255);not null;index"`
	Email      string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone      string     `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Cohort     string     `json:"cohort,omitempty" gorm:"type:varchar(100);index"`
	Status     string     `json:"status" gorm:"type:varchar(20);default:'ativo';index"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Mentee
func (Mentee) TableName() string {
	return "mentees"
}

// NewMentee creates a new Mentee entity with the default active status
func NewMentee(fullName, email string) *Mentee {
	now := time.Now()
	return &Mentee{
		ID:         uuid.New(),
		FullName:   fullName,
		Email:      email,
		Status:     MenteeStatusActive,
		EnrolledAt: &now,
	}
}

// Mentee status constants
const (
	MenteeStatusActive   = "ativo"
	MenteeStatusInactive = "inativo"
	MenteeStatusPaused   = "pausado"
)

// Pendency represents an outstanding payment recorded against a mentee
type Pendency struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MenteeID    uuid.UUID `json:"mentee_id" gorm:"type:uuid;not null;index"`
	MenteeName  string    `json:"mentee_name" gorm:"type:varchar(255);not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Month       string    `json:"month" gorm:"type:varchar(20);not null"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pendente';index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Pendency
func (Pendency) TableName() string {
	return "pendencies"
}

// NewPendency creates a pending Pendency for the given mentee
func NewPendency(menteeID uuid.UUID, menteeName string, amount float64, month string) *Pendency {
	return &Pendency{
		ID:         uuid.New(),
		MenteeID:   menteeID,
		MenteeName: menteeName,
		Amount:     amount,
		Month:      month,
		Status:     PendencyStatusPending,
	}
}

// Pendency status constants
const (
	PendencyStatusPending   = "pendente"
	PendencyStatusPaid      = "pago"
	PendencyStatusCancelled = "cancelado"
)
