package mirror

import (
	"fmt"
	"io"

	"github.com/sabhiram/go-gitignore"
)

// Mode selects how the two roots are paired.
type Mode string

const (
	// ModeSubdirs syncs every top-level directory of the destination against
	// the source directory with the same name.
	ModeSubdirs Mode = "subdirs"
	// ModePair syncs the two roots directly.
	ModePair Mode = "pair"
)

// ParentPolicy decides what a transfer does when the destination parent
// directory is missing.
type ParentPolicy string

const (
	// ParentsCreate creates every missing parent before copying.
	ParentsCreate ParentPolicy = "create"
	// ParentsSkipMissing leaves the file uncopied when its parent is missing,
	// so files only land in directories the destination already has.
	ParentsSkipMissing ParentPolicy = "skip"
)

// EnumerationPolicy decides what the lister does with unreadable entries.
type EnumerationPolicy string

const (
	// EnumerationLenient records unreadable entries as skipped and keeps walking.
	EnumerationLenient EnumerationPolicy = "lenient"
	// EnumerationStrict fails the listing on the first unreadable entry.
	EnumerationStrict EnumerationPolicy = "strict"
)

// FailurePolicy decides whether the dispatcher keeps going after a pair fails.
type FailurePolicy string

const (
	FailAbort    FailurePolicy = "abort"
	FailContinue FailurePolicy = "continue"
)

// ClonePolicy controls the copy-on-write stage of a transfer.
type ClonePolicy string

const (
	CloneAuto  ClonePolicy = "auto"
	CloneNever ClonePolicy = "never"
)

// Options configures a mirror run.
type Options struct {
	SourceRoot      string
	DestinationRoot string
	Mode            Mode
	Parents         ParentPolicy
	Enumeration     EnumerationPolicy
	OnPairError     FailurePolicy
	Clone           ClonePolicy
	IgnoreMatcher   *ignore.GitIgnore
	Jobs            int
	Report          io.Writer
}

// withDefaults fills zero values with the default policies.
func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeSubdirs
	}
	if o.Parents == "" {
		o.Parents = ParentsCreate
	}
	if o.Enumeration == "" {
		o.Enumeration = EnumerationLenient
	}
	if o.OnPairError == "" {
		o.OnPairError = FailAbort
	}
	if o.Clone == "" {
		o.Clone = CloneAuto
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Report == nil {
		o.Report = io.Discard
	}
	return o
}

// ParseMode validates a mode name.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(value); m {
	case ModeSubdirs, ModePair:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", value, ModeSubdirs, ModePair)
}

// ParseParentPolicy validates a parent policy name.
func ParseParentPolicy(value string) (ParentPolicy, error) {
	switch p := ParentPolicy(value); p {
	case ParentsCreate, ParentsSkipMissing:
		return p, nil
	}
	return "", fmt.Errorf("unknown parents policy %q (want %q or %q)", value, ParentsCreate, ParentsSkipMissing)
}

// ParseEnumerationPolicy validates an enumeration policy name.
func ParseEnumerationPolicy(value string) (EnumerationPolicy, error) {
	switch p := EnumerationPolicy(value); p {
	case EnumerationLenient, EnumerationStrict:
		return p, nil
	}
	return "", fmt.Errorf("unknown enumeration policy %q (want %q or %q)", value, EnumerationLenient, EnumerationStrict)
}

// ParseFailurePolicy validates a failure policy name.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch p := FailurePolicy(value); p {
	case FailAbort, FailContinue:
		return p, nil
	}
	return "", fmt.Errorf("unknown pair error policy %q (want %q or %q)", value, FailAbort, FailContinue)
}

// ParseClonePolicy validates a clone policy name.
func ParseClonePolicy(value string) (ClonePolicy, error) {
	switch p := ClonePolicy(value); p {
	case CloneAuto, CloneNever:
		return p, nil
	}
	return "", fmt.Errorf("unknown clone policy %q (want %q or %q)", value, CloneAuto, CloneNever)
}
