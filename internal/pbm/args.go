package pbm

import (
	"strconv"
	"time"
)

// olderThanLayout is the timestamp format pbm accepts for --older-than.
const olderThanLayout = "2006-01-02T15:04:05"

// args accumulates command flags. Boolean flags are emitted bare, valued
// flags as "--name value", and the positional backup name always goes last.
type args struct {
	flags []string
	name  string
}

func (a *args) flag(name string, on bool) *args {
	if on {
		a.flags = append(a.flags, "--"+name)
	}
	return a
}

func (a *args) value(name, v string) *args {
	if v != "" {
		a.flags = append(a.flags, "--"+name, v)
	}
	return a
}

func (a *args) number(name string, v int) *args {
	if v != 0 {
		a.flags = append(a.flags, "--"+name, strconv.Itoa(v))
	}
	return a
}

func (a *args) olderThan(t time.Time) *args {
	return a.value("older-than", t.UTC().Format(olderThanLayout))
}

func (a *args) positional(name string) *args {
	a.name = name
	return a
}

func (a *args) build() []string {
	out := append([]string(nil), a.flags...)
	if a.name != "" {
		out = append(out, a.name)
	}
	return out
}
