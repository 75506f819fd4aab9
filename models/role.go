package models

// Role is a single role classification. ID is assigned by the database on
// insert and never changes afterwards.
type Role struct {
	ID   uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type RoleType `gorm:"column:type;type:varchar(32);not null;index" json:"type"`
}

// TableName pins the table so renaming the struct never moves the data.
func (Role) TableName() string { return "roles" }

// NewRole returns an unpersisted role of the given type.
func NewRole(t RoleType) *Role {
	return &Role{Type: t}
}

func (r *Role) GetID() uint { return r.ID }

// SetID is meant for the storage layer; application code should not call it.
func (r *Role) SetID(id uint) { r.ID = id }

func (r *Role) GetType() RoleType { return r.Type }

// SetType reassigns the classification. Only enumeration members are accepted.
func (r *Role) SetType(t RoleType) error {
	if !t.IsValid() {
		return ErrUnknownRoleType
	}
	r.Type = t
	return nil
}

// IsPersisted reports whether storage has assigned an id.
func (r *Role) IsPersisted() bool { return r.ID != 0 }
