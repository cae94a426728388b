// Package models defines the domain types for Othala records.
package models

// Kind discriminates the two record variants.
type Kind string

// Record kinds.
const (
	KindEntry   Kind = "entry"
	KindSummary Kind = "summary"
)

// Status is the lifecycle state shared by both record variants.
type Status string

// Record statuses.
const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusReference Status = "reference"
	StatusBlocked   Status = "blocked"
	StatusPlanned   Status = "planned"
)

// Link is a typed, directed edge stored on the source record only.
// ID names the target record.
type Link struct {
	ID           string `yaml:"id" json:"id"`
	Relationship string `yaml:"relationship" json:"relationship"`
	Notes        string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// RecordMeta holds the fields common to both record variants.
type RecordMeta struct {
	ID     string   `yaml:"id" json:"id"`
	Type   Kind     `yaml:"type" json:"type"`
	Topic  string   `yaml:"topic" json:"topic"`
	Status Status   `yaml:"status" json:"status"`
	Tags   []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Links  []Link   `yaml:"links,omitempty" json:"links,omitempty"`
}

// Meta returns the shared fields; it makes any embedding type a Record.
func (m *RecordMeta) Meta() *RecordMeta { return m }

// Kind returns the record's declared kind.
func (m *RecordMeta) Kind() Kind { return m.Type }

// Record is the union of Summary and JournalEntry. Consumers switch on the
// concrete type; Meta gives access to the shared fields without a switch.
type Record interface {
	Meta() *RecordMeta
	Kind() Kind
}

// DateRange bounds the period a summary covers.
type DateRange struct {
	Start string `yaml:"start,omitempty" json:"start,omitempty"`
	End   string `yaml:"end,omitempty" json:"end,omitempty"`
}

// Learning is a single insight captured on a summary.
type Learning struct {
	Insight   string   `yaml:"insight" json:"insight"`
	Context   string   `yaml:"context,omitempty" json:"context,omitempty"`
	Details   string   `yaml:"details,omitempty" json:"details,omitempty"`
	Relevance []string `yaml:"relevance,omitempty" json:"relevance,omitempty"`
}

// Decision records a choice made and its reasoning.
type Decision struct {
	Decision  string `yaml:"decision" json:"decision"`
	Rationale string `yaml:"rationale,omitempty" json:"rationale,omitempty"`
	TradeOffs string `yaml:"trade_offs,omitempty" json:"trade_offs,omitempty"`
	Date      string `yaml:"date,omitempty" json:"date,omitempty"`
}

// Resource is an external reference attached to a record.
type Resource struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Outcome buckets what a journal entry observed.
type Outcome struct {
	Worked    []string `yaml:"worked,omitempty" json:"worked,omitempty"`
	Failed    []string `yaml:"failed,omitempty" json:"failed,omitempty"`
	Surprised []string `yaml:"surprised,omitempty" json:"surprised,omitempty"`
}

// Summary aggregates knowledge about a topic over time.
type Summary struct {
	RecordMeta    `yaml:",inline"`
	DateRange     *DateRange `yaml:"date_range,omitempty" json:"date_range,omitempty"`
	Summary       string     `yaml:"summary" json:"summary"`
	Learnings     []Learning `yaml:"learnings,omitempty" json:"learnings,omitempty"`
	Decisions     []Decision `yaml:"decisions,omitempty" json:"decisions,omitempty"`
	Artifacts     []string   `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	OpenQuestions []string   `yaml:"open_questions,omitempty" json:"open_questions,omitempty"`
	Resources     []Resource `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// JournalEntry is a point-in-time log of work on a topic.
type JournalEntry struct {
	RecordMeta `yaml:",inline"`
	Date       string     `yaml:"date,omitempty" json:"date,omitempty"`
	Context    string     `yaml:"context,omitempty" json:"context,omitempty"`
	Approach   string     `yaml:"approach,omitempty" json:"approach,omitempty"`
	Outcome    *Outcome   `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Commits    []string   `yaml:"commits,omitempty" json:"commits,omitempty"`
	Resources  []Resource `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Compile-time interface checks.
var (
	_ Record = (*Summary)(nil)
	_ Record = (*JournalEntry)(nil)
)
