package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// NormalizeRole maps legacy role spellings onto the values the API expects
// in the X-Role header.
func NormalizeRole(r Role) Role {
	if r == "empleado" {
		return RoleEmployee
	}
	return r
}

// RoleID returns the numeric role identifier used by PUT /roles/assign.
func RoleID(r Role) int {
	if NormalizeRole(r) == RoleAdmin {
		return 1
	}
	return 2
}

// User is a CMS operator account as returned by the API.
type User struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Birthdate string     `json:"birthdate,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Session is the authenticated state held by the store and mirrored into
// the persisted snapshots.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
	Role  Role   `json:"role"`
}

// FieldDef describes one schema field of a content type. Field IDs are
// unique within a type and match ^[a-z][a-zA-Z0-9]*$.
type FieldDef struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        FieldKind        `json:"type"`
	Required    bool             `json:"required"`
	Localized   bool             `json:"localized"`
	Validations []map[string]any `json:"validations,omitempty"`
	Items       map[string]any   `json:"items,omitempty"`
	LinkType    string           `json:"linkType,omitempty"`
	Config      map[string]any   `json:"config,omitempty"`
}

// ContentType is an operator-defined schema that entries conform to.
type ContentType struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	APIID     string     `json:"api_id"`
	Schema    []FieldDef `json:"schema"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Field returns the schema field with the given id, if any.
func (ct *ContentType) Field(id string) (FieldDef, bool) {
	for _, f := range ct.Schema {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDef{}, false
}

type EntryStatus string

const (
	StatusDraft     EntryStatus = "DRAFT"
	StatusPublished EntryStatus = "PUBLISHED"
	StatusArchived  EntryStatus = "ARCHIVED"
)

// Entry is a single content record. Fields is the one canonical value map;
// the legacy fields/values duality only exists on the EntryView adapter.
type Entry struct {
	ID            string         `json:"id"`
	ContentTypeID string         `json:"content_type_id"`
	Title         string         `json:"title,omitempty"`
	Fields        map[string]any `json:"fields"`
	Status        EntryStatus    `json:"status"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
	CreatedBy     string         `json:"created_by,omitempty"`
	UpdatedBy     string         `json:"updated_by,omitempty"`
}

// EntryView is the view-boundary shape of an entry: the server's snake_case
// record plus the values mirror and camelCase aliases that the console (and
// the old web UI) read.
type EntryView struct {
	Entry
	Values         map[string]any `json:"values"`
	CreatedAtAlias *time.Time     `json:"createdAt,omitempty"`
	UpdatedAtAlias *time.Time     `json:"updatedAt,omitempty"`
	CreatedByAlias string         `json:"createdBy,omitempty"`
	UpdatedByAlias string         `json:"updatedBy,omitempty"`
}

// View adapts an entry for display. Values aliases the canonical field map;
// both names read the same data.
func (e Entry) View() EntryView {
	return EntryView{
		Entry:          e,
		Values:         e.Fields,
		CreatedAtAlias: e.CreatedAt,
		UpdatedAtAlias: e.UpdatedAt,
		CreatedByAlias: e.CreatedBy,
		UpdatedByAlias: e.UpdatedBy,
	}
}

// APIKey is a delivery credential minted by the server. Token material is
// immutable after creation; only name and description are client-editable.
type APIKey struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	SpaceID       string     `json:"space_id,omitempty"`
	Token         string     `json:"token,omitempty"`
	DeliveryToken string     `json:"delivery_token,omitempty"`
	PreviewToken  string     `json:"preview_token,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Theme holds the visual theme settings served by GET /api/theme.
type Theme struct {
	Name            string `json:"name"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	Mode            string `json:"mode"`
}

// RoleInfo is one element of the GET /roles catalog.
type RoleInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UserPage is a page of the user listing.
type UserPage struct {
	Items []User `json:"items"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
}

// TotalPages computes ceiling(total/limit); zero when the page size is unset.
func (p UserPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
