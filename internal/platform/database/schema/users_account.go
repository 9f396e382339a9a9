package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	IsStaff     string
	IsSuperuser string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	FirstName:   "firstname",
	LastName:    "lastname",
	Bio:         "bio",
	Role:        "role",
	IsStaff:     "isstaff",
	IsSuperuser: "issuperuser",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Uniqueness constraints on users.account. Stores match on these names to
// report which identifier collided.
const (
	UniqueAccountUsername = "account_unique_username"
	UniqueAccountEmail    = "account_unique_email"
)

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio,
		t.Role, t.IsStaff, t.IsSuperuser, t.CreatedAt, t.UpdatedAt,
	}
}
