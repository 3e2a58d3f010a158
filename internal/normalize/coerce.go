package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// lookup resolves one dot path against the record and reports whether a
// non-nil value is present there.
func lookup(src map[string]any, path string) (any, bool) {
	cur := any(src)
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// pick walks the candidate paths in order and returns the first value that is
// present and non-nil, regardless of type. The typed pickers below instead
// keep walking past values that fail their coercion, so a wrong-typed value
// at an early candidate key never masks a usable one at a later key.
func pick(src map[string]any, paths ...string) (any, bool) {
	for _, path := range paths {
		if v, ok := lookup(src, path); ok {
			return v, true
		}
	}
	return nil, false
}

func pickString(src map[string]any, paths ...string) string {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// pickScalar is like pickString but also accepts numeric values, rendering
// them without a decimal part when whole. External ids in particular arrive
// both ways.
func pickScalar(src map[string]any, paths ...string) string {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		switch v.(type) {
		case string, float64, int, int64, bool:
			return scalarString(v)
		}
	}
	return ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func pickInt(src map[string]any, paths ...string) int {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		if f, ok := asFloat(v); ok {
			return int(f)
		}
	}
	return 0
}

// pickCount is pickInt floored at zero, for like/comment counters.
func pickCount(src map[string]any, paths ...string) int {
	n := pickInt(src, paths...)
	if n < 0 {
		return 0
	}
	return n
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// pickRating rounds and clamps the first numeric candidate into [0,5].
// Anything that is not a number (or numeric string) counts as an absent
// rating at that key.
func pickRating(src map[string]any, paths ...string) int {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		r := int(math.Round(f))
		if r < 0 {
			return 0
		}
		if r > 5 {
			return 5
		}
		return r
	}
	return 0
}

// pickTime accepts RFC3339 strings and unix-second numbers; a candidate that
// fails to parse is skipped. No parseable candidate resolves to the zero time.
func pickTime(src map[string]any, paths ...string) time.Time {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if ts, err := time.Parse(time.RFC3339, t); err == nil {
				return ts
			}
			if ts, err := time.Parse("2006-01-02", t); err == nil {
				return ts
			}
		case float64:
			if t > 0 {
				return time.Unix(int64(t), 0).UTC()
			}
		}
	}
	return time.Time{}
}

// pickNames flattens a list of strings or objects into the objects' display
// names. Used for circle and service name lists attached to posts.
func pickNames(src map[string]any, paths ...string) []string {
	for _, path := range paths {
		v, ok := lookup(src, path)
		if !ok {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		names := make([]string, 0, len(list))
		for _, item := range list {
			switch t := item.(type) {
			case string:
				if t != "" {
					names = append(names, t)
				}
			case map[string]any:
				if name := pickString(t, "name", "title"); name != "" {
					names = append(names, name)
				}
			}
		}
		return names
	}
	return []string{}
}

// identifier derives the canonical id for a record: id, then _id, then the
// scalar form of the source itself (member lists sometimes carry bare ids).
// Records with no derivable id are dropped by the batch decoders.
func identifier(v any) (string, bool) {
	if obj, ok := v.(map[string]any); ok {
		if id := pickScalar(obj, "id", "_id"); id != "" {
			return id, true
		}
		return "", false
	}
	if id := scalarString(v); id != "" {
		return id, true
	}
	return "", false
}

func postMediaType(src map[string]any, paths ...string) MediaType {
	switch strings.ToLower(pickString(src, paths...)) {
	case "tv", "show", "series":
		return MediaShow
	default:
		return MediaMovie
	}
}

func viewingMediaType(src map[string]any, paths ...string) MediaType {
	switch strings.ToLower(pickString(src, paths...)) {
	case "movie":
		return MediaMovie
	case "tv", "show", "series":
		return MediaTV
	default:
		return MediaUnknown
	}
}
