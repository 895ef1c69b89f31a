package wizard

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Validator is a pure predicate over the accumulated fields.
type Validator func(Fields) bool

// Required passes when every key holds a non-blank value.
func Required(keys ...string) Validator {
	return func(f Fields) bool {
		for _, k := range keys {
			if !f.Has(k) {
				return false
			}
		}
		return true
	}
}

// All passes when every validator passes. Nil validators are skipped.
func All(validators ...Validator) Validator {
	return func(f Fields) bool {
		for _, v := range validators {
			if v != nil && !v(f) {
				return false
			}
		}
		return true
	}
}

// Optional applies v only when key is filled in.
func Optional(key string, v Validator) Validator {
	return func(f Fields) bool {
		if !f.Has(key) {
			return true
		}
		return v(f)
	}
}

// OneOf passes when key equals one of options, ignoring case.
func OneOf(key string, options ...string) Validator {
	return func(f Fields) bool {
		return member(f.Get(key), options)
	}
}

// EachOneOf passes when key lists at least one entry and every entry is an option.
func EachOneOf(key string, options ...string) Validator {
	return func(f Fields) bool {
		items := f.List(key)
		if len(items) == 0 {
			return false
		}
		for _, item := range items {
			if !member(item, options) {
				return false
			}
		}
		return true
	}
}

// IntRange passes when key parses as an integer within [lo, hi].
func IntRange(key string, lo, hi int) Validator {
	return func(f Fields) bool {
		n, err := strconv.Atoi(f.Get(key))
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}
}

// Matches passes when key matches re.
func Matches(key string, re *regexp.Regexp) Validator {
	return func(f Fields) bool {
		return re.MatchString(f.Get(key))
	}
}

// DateLayout passes when key parses with the given time layout.
func DateLayout(key, layout string) Validator {
	return func(f Fields) bool {
		_, err := time.Parse(layout, f.Get(key))
		return err == nil
	}
}

// Equals passes when key equals want, ignoring case.
func Equals(key, want string) Validator {
	return func(f Fields) bool {
		return strings.EqualFold(f.Get(key), want)
	}
}

func member(value string, options []string) bool {
	for _, o := range options {
		if strings.EqualFold(value, o) {
			return true
		}
	}
	return false
}
