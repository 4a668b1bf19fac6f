package domain

import "time"

// User is the authentication identity. Password holds a bcrypt hash.
type User struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"size:254" json:"email"`
	Password   string     `gorm:"size:128;not null" json:"-"`
	FirstName  string     `gorm:"size:150" json:"first_name"`
	LastName   string     `gorm:"size:150" json:"last_name"`
	IsStaff    bool       `gorm:"not null" json:"is_staff"`
	IsActive   bool       `gorm:"not null" json:"is_active"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"perfil,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Profile holds per-user contact data, exactly one per user
type Profile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"-"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Phone     string    `gorm:"size:20" json:"telefono"`
	Company   string    `gorm:"size:200" json:"empresa"`
	Address   string    `gorm:"type:text" json:"direccion"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

func (Profile) TableName() string {
	return "profiles"
}
