package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// Mode is the treatment for an editable category.
type Mode string

const (
	ModeEdit           Mode = "edit"             // overwrite once, keep the husk
	ModeDelete         Mode = "delete"           // delete without overwriting
	ModeEditThenDelete Mode = "edit-then-delete" // overwrite three times, then delete
)

const dateLayout = "2006-01-02"

// ConfigError is a fatal configuration problem, surfaced before any
// processing starts.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Config is the frozen set of user choices for one run. It is validated
// once at load and never re-read mid-run.
type Config struct {
	DeleteComments  bool `json:"delete_comments"`
	DeletePosts     bool `json:"delete_posts"`
	DeleteSaved     bool `json:"delete_saved"`
	DeleteUpvotes   bool `json:"delete_upvotes"`
	DeleteDownvotes bool `json:"delete_downvotes"`
	DeleteHidden    bool `json:"delete_hidden"`

	CommentMode Mode `json:"comment_mode"`
	PostMode    Mode `json:"post_mode"`

	// Karma thresholds: content with karma >= threshold is kept. "*" (or
	// empty) means process regardless of karma.
	CommentKarmaThreshold string `json:"comment_karma_threshold"`
	PostKarmaThreshold    string `json:"post_karma_threshold"`

	PreserveGilded        bool `json:"preserve_gilded"`
	PreserveDistinguished bool `json:"preserve_distinguished"`

	// Whitelisted subreddits are excluded from processing; blacklisted
	// subreddits are the only ones processed. Setting both is an error.
	WhitelistSubreddits []string `json:"whitelist_subreddits"`
	BlacklistSubreddits []string `json:"blacklist_subreddits"`

	// Inclusive YYYY-MM-DD bounds; either may be empty.
	OnlyAfter  string `json:"only_after"`
	OnlyBefore string `json:"only_before"`

	DryRun          bool   `json:"dry_run"`
	ReplacementText string `json:"replacement_text"`
	Advertise       bool   `json:"advertise"`

	SourceMode string `json:"source_mode"` // api, export, or mock
	ExportDir  string `json:"export_dir"`

	LedgerPath  string `json:"ledger_path"`
	JournalPath string `json:"journal_path"`
	ReportPort  string `json:"report_port"` // empty disables the report server

	notBefore *time.Time
	notAfter  *time.Time
	whitelist map[string]struct{}
	blacklist map[string]struct{}
	comKarma  *int
	postKarma *int
}

func defaultConfig() Config {
	return Config{
		DeleteComments:        true,
		DeletePosts:           true,
		DeleteSaved:           true,
		DeleteUpvotes:         true,
		DeleteDownvotes:       true,
		DeleteHidden:          true,
		CommentMode:           ModeEditThenDelete,
		PostMode:              ModeEditThenDelete,
		CommentKarmaThreshold: "*",
		PostKarmaThreshold:    "*",
		DryRun:                true,
		SourceMode:            "api",
		LedgerPath:            "ereddicator.db",
		JournalPath:           "data/decisions.json",
		ReportPort:            "8080",
	}
}

// LoadOrInit reads the config at path, creating a default file first if
// none exists. The returned bool reports whether the file was just created;
// callers should tell the user to edit it and rerun.
func LoadOrInit(path string) (Config, bool, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := defaultConfig()
		if err := writeConfig(path, cfg); err != nil {
			return Config{}, false, err
		}
		return cfg, true, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, err
	}
	cfg := defaultConfig()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, false, err
	}
	return cfg, false, nil
}

func writeConfig(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// Validate checks the run choices and precomputes lookup state. It must be
// called (directly or via LoadOrInit) before the config is used.
func (c *Config) Validate() error {
	if len(c.WhitelistSubreddits) > 0 && len(c.BlacklistSubreddits) > 0 {
		return &ConfigError{Field: "whitelist_subreddits", Msg: "whitelist and blacklist are mutually exclusive"}
	}
	if !c.DeleteComments && !c.DeletePosts && !c.DeleteSaved &&
		!c.DeleteUpvotes && !c.DeleteDownvotes && !c.DeleteHidden {
		return &ConfigError{Field: "delete_*", Msg: "no content categories enabled"}
	}
	switch c.CommentMode {
	case ModeEdit, ModeDelete, ModeEditThenDelete:
	default:
		return &ConfigError{Field: "comment_mode", Msg: "unknown mode " + strconv.Quote(string(c.CommentMode))}
	}
	switch c.PostMode {
	case ModeEdit, ModeDelete, ModeEditThenDelete:
	default:
		return &ConfigError{Field: "post_mode", Msg: "unknown mode " + strconv.Quote(string(c.PostMode))}
	}
	switch c.SourceMode {
	case "api", "export", "mock":
	default:
		return &ConfigError{Field: "source_mode", Msg: "unknown source " + strconv.Quote(c.SourceMode)}
	}
	if c.SourceMode == "export" && c.ExportDir == "" {
		return &ConfigError{Field: "export_dir", Msg: "required when source_mode is export"}
	}

	var err error
	if c.comKarma, err = parseThreshold(c.CommentKarmaThreshold); err != nil {
		return &ConfigError{Field: "comment_karma_threshold", Msg: err.Error()}
	}
	if c.postKarma, err = parseThreshold(c.PostKarmaThreshold); err != nil {
		return &ConfigError{Field: "post_karma_threshold", Msg: err.Error()}
	}

	if c.OnlyAfter != "" {
		t, err := time.ParseInLocation(dateLayout, c.OnlyAfter, time.UTC)
		if err != nil {
			return &ConfigError{Field: "only_after", Msg: "want YYYY-MM-DD"}
		}
		c.notBefore = &t
	}
	if c.OnlyBefore != "" {
		t, err := time.ParseInLocation(dateLayout, c.OnlyBefore, time.UTC)
		if err != nil {
			return &ConfigError{Field: "only_before", Msg: "want YYYY-MM-DD"}
		}
		// Inclusive upper bound: anything created on that day still counts.
		t = t.Add(24*time.Hour - time.Nanosecond)
		c.notAfter = &t
	}
	if c.notBefore != nil && c.notAfter != nil && c.notAfter.Before(*c.notBefore) {
		return &ConfigError{Field: "only_before", Msg: "date range is empty"}
	}

	c.whitelist = toSet(c.WhitelistSubreddits)
	c.blacklist = toSet(c.BlacklistSubreddits)
	return nil
}

// "*" or "" is the wildcard: no karma floor, everything is fair game.
func parseThreshold(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("want an integer or %q", "*")
	}
	return &n, nil
}

func toSet(subs []string) map[string]struct{} {
	if len(subs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "r/")))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// Enabled reports whether the user selected cat for processing.
func (c *Config) Enabled(cat domain.Category) bool {
	switch cat {
	case domain.CategoryComment:
		return c.DeleteComments
	case domain.CategoryPost:
		return c.DeletePosts
	case domain.CategorySaved:
		return c.DeleteSaved
	case domain.CategoryUpvote:
		return c.DeleteUpvotes
	case domain.CategoryDownvote:
		return c.DeleteDownvotes
	case domain.CategoryHidden:
		return c.DeleteHidden
	}
	return false
}

// ModeFor returns the treatment for an editable category. Non-editable
// categories always get plain removal.
func (c *Config) ModeFor(cat domain.Category) Mode {
	switch cat {
	case domain.CategoryComment:
		return c.CommentMode
	case domain.CategoryPost:
		return c.PostMode
	}
	return ModeDelete
}

// KarmaThreshold returns the karma floor for cat, or ok=false for the
// wildcard (process regardless of karma).
func (c *Config) KarmaThreshold(cat domain.Category) (int, bool) {
	var t *int
	switch cat {
	case domain.CategoryComment:
		t = c.comKarma
	case domain.CategoryPost:
		t = c.postKarma
	}
	if t == nil {
		return 0, false
	}
	return *t, true
}

// InDateRange reports whether ts falls inside the configured bounds.
func (c *Config) InDateRange(ts time.Time) bool {
	if c.notBefore != nil && ts.Before(*c.notBefore) {
		return false
	}
	if c.notAfter != nil && ts.After(*c.notAfter) {
		return false
	}
	return true
}

// Whitelisted reports whether sub is on the exclusion whitelist.
func (c *Config) Whitelisted(sub string) bool {
	_, ok := c.whitelist[normalizeSub(sub)]
	return ok
}

// Blacklist reports whether an exclusive-include list is active, and
// whether sub is on it.
func (c *Config) Blacklist(sub string) (active, member bool) {
	if len(c.blacklist) == 0 {
		return false, false
	}
	_, ok := c.blacklist[normalizeSub(sub)]
	return true, ok
}

func normalizeSub(sub string) string {
	return strings.ToLower(strings.TrimPrefix(sub, "r/"))
}
