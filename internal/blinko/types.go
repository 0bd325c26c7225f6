package blinko

// NoteType is the Blinko note kind.
type NoteType int

// Note types. AnyType is accepted by search only.
const (
	AnyType NoteType = -1
	Flash   NoteType = 0
	Normal  NoteType = 1
	Todo    NoteType = 2
)

// Valid reports whether t can be written to a note.
func (t NoteType) Valid() bool {
	return t == Flash || t == Normal || t == Todo
}

// Label returns the human-readable name used when rendering notes.
func (t NoteType) Label() string {
	switch t {
	case Flash:
		return "Flash Note"
	case Normal:
		return "Normal Note"
	case Todo:
		return "Todo Note"
	default:
		return "Unknown"
	}
}

// Note is a note as returned by the Blinko API.
type Note struct {
	ID                int64    `json:"id"`
	Type              NoteType `json:"type"`
	Content           string   `json:"content"`
	IsArchived        bool     `json:"isArchived"`
	IsRecycle         bool     `json:"isRecycle"`
	IsShare           bool     `json:"isShare"`
	IsTop             bool     `json:"isTop"`
	IsReviewed        bool     `json:"isReviewed"`
	SharePassword     string   `json:"sharePassword,omitempty"`
	ShareEncryptedURL string   `json:"shareEncryptedUrl,omitempty"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// SearchQuery holds the note list filters. Zero values and nil pointers mean
// "use the default": Size 5, Type AnyType, IsUseAIQuery true.
type SearchQuery struct {
	SearchText   string    `json:"searchText"`
	Size         int       `json:"size,omitempty"`
	Type         *NoteType `json:"type,omitempty"`
	IsArchived   bool      `json:"isArchived,omitempty"`
	IsRecycle    bool      `json:"isRecycle,omitempty"`
	IsUseAIQuery *bool     `json:"isUseAiQuery,omitempty"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	HasTodo      bool      `json:"hasTodo,omitempty"`
}

// DefaultSearchSize caps search results when no size is given.
const DefaultSearchSize = 5

type searchPayload struct {
	SearchText   string   `json:"searchText"`
	Size         int      `json:"size"`
	Type         NoteType `json:"type"`
	IsArchived   bool     `json:"isArchived"`
	IsRecycle    bool     `json:"isRecycle"`
	IsUseAIQuery bool     `json:"isUseAiQuery"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	HasTodo      bool     `json:"hasTodo"`
}

func (q SearchQuery) payload() searchPayload {
	p := searchPayload{
		SearchText:   q.SearchText,
		Size:         q.Size,
		Type:         AnyType,
		IsArchived:   q.IsArchived,
		IsRecycle:    q.IsRecycle,
		IsUseAIQuery: true,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		HasTodo:      q.HasTodo,
	}
	if p.Size <= 0 {
		p.Size = DefaultSearchSize
	}
	if q.Type != nil {
		p.Type = *q.Type
	}
	if q.IsUseAIQuery != nil {
		p.IsUseAIQuery = *q.IsUseAIQuery
	}
	return p
}

// NoteUpdate is a sparse set of note fields. Nil fields are left unchanged server-side.
type NoteUpdate struct {
	Content    *string   `json:"content,omitempty"`
	Type       *NoteType `json:"type,omitempty"`
	IsArchived *bool     `json:"isArchived,omitempty"`
	IsRecycle  *bool     `json:"isRecycle,omitempty"`
	IsTop      *bool     `json:"isTop,omitempty"`
}

type updatePayload struct {
	ID int64 `json:"id"`
	NoteUpdate
}

type deletePayload struct {
	IDs []int64 `json:"ids"`
}

type upsertPayload struct {
	Content string   `json:"content"`
	Type    NoteType `json:"type"`
}

// ShareRequest creates or cancels a public share link. An empty Password shares
// without protection.
type ShareRequest struct {
	ID       int64  `json:"id"`
	IsCancel bool   `json:"isCancel"`
	Password string `json:"password"`
}

// ShareResult mirrors the share state of a note.
type ShareResult struct {
	ID                int64  `json:"id"`
	IsShare           bool   `json:"isShare"`
	SharePassword     string `json:"sharePassword,omitempty"`
	ShareEncryptedURL string `json:"shareEncryptedUrl,omitempty"`
}

// Result is the acknowledgement returned by mutating operations.
type Result struct {
	Success bool `json:"success"`
}

// Credentials identify a Blinko instance and the key used to access it.
type Credentials struct {
	Domain string
	APIKey string
}

// Complete reports whether both the domain and API key are set.
func (c Credentials) Complete() bool {
	return c.Domain != "" && c.APIKey != ""
}
