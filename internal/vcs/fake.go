package vcs

import (
	"context"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Fake is an in-memory Git for tests.
type Fake struct {
	Head     string
	History  map[string]string // path -> last commit
	Tags     map[string]string // name -> message
	Pushed   []string
	User     string
	Remotes  map[string]bool
	FailWith error
}

// NewFake returns a Fake with HEAD set and an "origin" remote.
func NewFake(head string) *Fake {
	return &Fake{
		Head:    head,
		History: map[string]string{},
		Tags:    map[string]string{},
		Remotes: map[string]bool{"origin": true},
	}
}

func (f *Fake) CurrentRevision(ctx context.Context) (string, error) {
	if f.FailWith != nil {
		return "", f.FailWith
	}
	return f.Head, nil
}

func (f *Fake) LastRevisionTouching(ctx context.Context, p string) (string, error) {
	if f.FailWith != nil {
		return "", f.FailWith
	}
	return f.History[p], nil
}

func (f *Fake) CreateTag(ctx context.Context, name, message string) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	if _, ok := f.Tags[name]; ok {
		return &CommandError{Args: []string{"tag", "-a", name}, Output: fmt.Sprintf("fatal: tag '%s' already exists", name), Err: fmt.Errorf("exit status 128")}
	}
	f.Tags[name] = message
	return nil
}

func (f *Fake) ListTags(ctx context.Context, pattern string) ([]string, error) {
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	var out []string
	for name := range f.Tags {
		if ok, _ := doublestar.Match(pattern, name); pattern == "" || ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *Fake) PushTag(ctx context.Context, remote, name string) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	if !f.Remotes[remote] {
		return &CommandError{Args: []string{"push", remote, name}, Output: fmt.Sprintf("fatal: '%s' does not appear to be a git repository", remote), Err: fmt.Errorf("exit status 128")}
	}
	f.Pushed = append(f.Pushed, remote+":"+name)
	return nil
}

func (f *Fake) UserName(ctx context.Context) string {
	return f.User
}
