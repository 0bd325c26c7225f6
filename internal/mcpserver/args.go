package mcpserver

import (
	"errors"
	"math"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"

	"github.com/starford/blinko-mcp/internal/apperr"
	"github.com/starford/blinko-mcp/internal/blinko"
)

// PasswordPattern is the share password format.
const PasswordPattern = `^\d{6}$`

var passwordRe = regexp.MustCompile(PasswordPattern)

var (
	errRequired   = errors.New("is required")
	errNotNumber  = errors.New("must be a number")
	errNotFinite  = errors.New("must be a finite number")
	errNotInteger = errors.New("must be an integer")
	errOutOfRange = errors.New("must be an integer in range")
	errNotBool    = errors.New("must be a boolean")
)

// argBag is the raw argument map of a tool call. Keys holding JSON null count as absent.
type argBag map[string]any

func (b argBag) has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

func (b argBag) text(key string) (string, error) {
	if !b.has(key) {
		return "", nil
	}
	s, err := cast.ToStringE(b[key])
	if err != nil {
		return "", validation.Errors{key: errors.New("must be text")}
	}
	return s, nil
}

func (b argBag) optText(key string) (*string, error) {
	if !b.has(key) {
		return nil, nil
	}
	s, err := b.text(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b argBag) integer(key string) (int64, error) {
	if !b.has(key) {
		return 0, validation.Errors{key: errRequired}
	}
	f, err := cast.ToFloat64E(b[key])
	if err != nil {
		return 0, validation.Errors{key: errNotNumber}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, validation.Errors{key: errNotFinite}
	}
	if f != math.Trunc(f) {
		return 0, validation.Errors{key: errNotInteger}
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, validation.Errors{key: errOutOfRange}
	}
	return int64(f), nil
}

func (b argBag) optBool(key string) (*bool, error) {
	if !b.has(key) {
		return nil, nil
	}
	v, err := cast.ToBoolE(b[key])
	if err != nil {
		return nil, validation.Errors{key: errNotBool}
	}
	return &v, nil
}

func (b argBag) flag(key string) (bool, error) {
	v, err := b.optBool(key)
	if err != nil || v == nil {
		return false, err
	}
	return *v, nil
}

// contentArgs are the arguments of the upsert tools.
type contentArgs struct {
	Content string `json:"content"`
}

func (a *contentArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Content, validation.Required.Error("is required and must not be empty")),
	)
}

func parseContentArgs(op string, raw map[string]any) (*contentArgs, error) {
	content, err := argBag(raw).text("content")
	if err != nil {
		return nil, apperr.Validation(op, err)
	}
	a := &contentArgs{Content: content}
	if err := a.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}
	return a, nil
}

// noteIDArgs are the arguments of tools addressing a single note.
type noteIDArgs struct {
	NoteID int64
}

func parseNoteIDArgs(op string, raw map[string]any) (*noteIDArgs, error) {
	id, err := argBag(raw).integer("noteId")
	if err != nil {
		return nil, apperr.Validation(op, err)
	}
	return &noteIDArgs{NoteID: id}, nil
}

// updateArgs carry only the fields the caller supplied.
type updateArgs struct {
	NoteID int64
	Update blinko.NoteUpdate
}

func (a *updateArgs) Validate() error {
	return validation.ValidateStruct(&a.Update,
		validation.Field(&a.Update.Type, validation.In(blinko.Flash, blinko.Normal, blinko.Todo).
			Error("must be 0 (flash), 1 (normal) or 2 (todo)")),
	)
}

func parseUpdateArgs(op string, raw map[string]any) (*updateArgs, error) {
	bag := argBag(raw)
	a := &updateArgs{}

	var err error
	if a.NoteID, err = bag.integer("noteId"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if a.Update.Content, err = bag.optText("content"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if bag.has("type") {
		t, err := bag.integer("type")
		if err != nil {
			return nil, apperr.Validation(op, err)
		}
		typ := blinko.NoteType(t)
		a.Update.Type = &typ
	}
	if a.Update.IsArchived, err = bag.optBool("isArchived"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if a.Update.IsRecycle, err = bag.optBool("isRecycle"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if a.Update.IsTop, err = bag.optBool("isTop"); err != nil {
		return nil, apperr.Validation(op, err)
	}

	if err := a.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}
	return a, nil
}

type shareArgs struct {
	NoteID   int64  `json:"noteId"`
	Password string `json:"password"`
	IsCancel bool   `json:"isCancel"`
}

func (a *shareArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Password, validation.Match(passwordRe).Error("must be exactly 6 digits")),
	)
}

func parseShareArgs(op string, raw map[string]any) (*shareArgs, error) {
	bag := argBag(raw)
	a := &shareArgs{}

	var err error
	if a.NoteID, err = bag.integer("noteId"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if a.Password, err = bag.text("password"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if a.IsCancel, err = bag.flag("isCancel"); err != nil {
		return nil, apperr.Validation(op, err)
	}

	if err := a.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}
	return a, nil
}

func (a *shareArgs) request() blinko.ShareRequest {
	return blinko.ShareRequest{ID: a.NoteID, IsCancel: a.IsCancel, Password: a.Password}
}

type searchArgs struct {
	Query blinko.SearchQuery
}

func (a *searchArgs) Validate() error {
	return validation.ValidateStruct(&a.Query,
		validation.Field(&a.Query.SearchText, validation.Required.Error("is required and must not be empty")),
	)
}

func parseSearchArgs(op string, raw map[string]any) (*searchArgs, error) {
	bag := argBag(raw)
	q := blinko.SearchQuery{}

	var err error
	if q.SearchText, err = bag.text("searchText"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if bag.has("size") {
		size, err := bag.integer("size")
		if err != nil {
			return nil, apperr.Validation(op, err)
		}
		if size < 0 || size > math.MaxInt32 {
			return nil, apperr.Validation(op, validation.Errors{"size": errOutOfRange})
		}
		q.Size = int(size)
	}
	q.Type = searchType(bag)
	if q.IsArchived, err = bag.flag("isArchived"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if q.IsRecycle, err = bag.flag("isRecycle"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if q.HasTodo, err = bag.flag("hasTodo"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	q.IsUseAIQuery = useAIQuery(bag)
	if q.StartDate, err = optDate(bag, "startDate"); err != nil {
		return nil, apperr.Validation(op, err)
	}
	if q.EndDate, err = optDate(bag, "endDate"); err != nil {
		return nil, apperr.Validation(op, err)
	}

	a := &searchArgs{Query: q}
	if err := a.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}
	return a, nil
}

// searchType forwards 0, 1 or 2 and maps anything else to "any type".
func searchType(bag argBag) *blinko.NoteType {
	typ := blinko.AnyType
	if bag.has("type") {
		if n, err := bag.integer("type"); err == nil && blinko.NoteType(n).Valid() {
			typ = blinko.NoteType(n)
		}
	}
	return &typ
}

// useAIQuery is true unless the argument coerces to false.
func useAIQuery(bag argBag) *bool {
	enabled := true
	if bag.has("isUseAiQuery") {
		if v, err := cast.ToBoolE(bag["isUseAiQuery"]); err == nil && !v {
			enabled = false
		}
	}
	return &enabled
}

// optDate treats an empty string like an absent bound.
func optDate(bag argBag, key string) (*string, error) {
	s, err := bag.optText(key)
	if err != nil || s == nil || *s == "" {
		return nil, err
	}
	return s, nil
}
