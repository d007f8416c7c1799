// models/guest_profile.go
package models

import (
	"gorm.io/gorm"
)

// GuestProfile is the CRM-side record. The reservation core only reads
// it to pre-fill guest fields at booking time; everything else about
// guests lives outside this service.
type GuestProfile struct {
	gorm.Model

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
