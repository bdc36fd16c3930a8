package interp

import (
	"strings"
	"unicode"
)

// boundMethod resolves obj.name into a callable builtin closed over obj.
// Mutating list and dict methods work because Value copies share the
// underlying object pointers.
func boundMethod(obj Value, name string) (Value, bool) {
	var fn func(in *Interp, args []Value, kwargs map[string]Value, line int) (Value, *RuntimeError)

	switch obj.Tag {
	case TagList:
		fn = listMethod(obj, name)
	case TagStr:
		fn = strMethod(obj, name)
	case TagDict:
		fn = dictMethod(obj, name)
	}
	if fn == nil {
		return Value{}, false
	}
	return BuiltinVal(name, fn), true
}

func listMethod(obj Value, name string) func(*Interp, []Value, map[string]Value, int) (Value, *RuntimeError) {
	l := obj.List
	switch name {
	case "append":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 1 {
				return None(), arityError(in, "append", line, "takes exactly one argument (%d given)", len(args))
			}
			l.Items = append(l.Items, args[0])
			return None(), nil
		}
	case "pop":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(l.Items) == 0 {
				return None(), in.raise("IndexError", line, "pop from empty list")
			}
			idx := int64(len(l.Items) - 1)
			if len(args) > 0 {
				if args[0].Tag != TagInt && args[0].Tag != TagBool {
					return None(), in.raise("TypeError", line, "'%s' object cannot be interpreted as an integer", TypeName(args[0]))
				}
				idx = indexInt(args[0])
			}
			i, ok := normalizeIndex(idx, len(l.Items))
			if !ok {
				return None(), in.raise("IndexError", line, "pop index out of range")
			}
			v := l.Items[i]
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return v, nil
		}
	case "insert":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 2 {
				return None(), arityError(in, "insert", line, "expected 2 arguments, got %d", len(args))
			}
			if args[0].Tag != TagInt && args[0].Tag != TagBool {
				return None(), in.raise("TypeError", line, "'%s' object cannot be interpreted as an integer", TypeName(args[0]))
			}
			i := indexInt(args[0])
			if i < 0 {
				i += int64(len(l.Items))
				if i < 0 {
					i = 0
				}
			}
			if i > int64(len(l.Items)) {
				i = int64(len(l.Items))
			}
			l.Items = append(l.Items, Value{})
			copy(l.Items[i+1:], l.Items[i:])
			l.Items[i] = args[1]
			return None(), nil
		}
	case "remove":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 1 {
				return None(), arityError(in, "remove", line, "takes exactly one argument (%d given)", len(args))
			}
			for i, v := range l.Items {
				if Equals(v, args[0]) {
					l.Items = append(l.Items[:i], l.Items[i+1:]...)
					return None(), nil
				}
			}
			return None(), in.raise("ValueError", line, "list.remove(x): x not in list")
		}
	case "extend":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 1 {
				return None(), arityError(in, "extend", line, "takes exactly one argument (%d given)", len(args))
			}
			items, err := in.materialize(args[0], line)
			if err != nil {
				return None(), err
			}
			l.Items = append(l.Items, items...)
			return None(), nil
		}
	case "index":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 {
				return None(), arityError(in, "index", line, "takes at least 1 argument (0 given)")
			}
			for i, v := range l.Items {
				if Equals(v, args[0]) {
					return IntVal(int64(i)), nil
				}
			}
			return None(), in.raise("ValueError", line, "%s is not in list", Repr(args[0]))
		}
	case "count":
		return func(_ *Interp, args []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			n := int64(0)
			if len(args) == 1 {
				for _, v := range l.Items {
					if Equals(v, args[0]) {
						n++
					}
				}
			}
			return IntVal(n), nil
		}
	case "reverse":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			for i, j := 0, len(l.Items)-1; i < j; i, j = i+1, j-1 {
				l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
			}
			return None(), nil
		}
	case "sort":
		return func(in *Interp, _ []Value, kwargs map[string]Value, line int) (Value, *RuntimeError) {
			reverse := false
			if v, ok := kwargs["reverse"]; ok {
				reverse = Truthy(v)
			}
			if err := in.sortValues(l.Items, reverse, line); err != nil {
				return None(), err
			}
			return None(), nil
		}
	case "clear":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			l.Items = l.Items[:0]
			return None(), nil
		}
	case "copy":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			return ListVal(append([]Value(nil), l.Items...)), nil
		}
	}
	return nil
}

func strMethod(obj Value, name string) func(*Interp, []Value, map[string]Value, int) (Value, *RuntimeError) {
	s := obj.Str
	switch name {
	case "upper":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			return StrVal(strings.ToUpper(s)), nil
		}
	case "lower":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			return StrVal(strings.ToLower(s)), nil
		}
	case "strip":
		return func(_ *Interp, args []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if len(args) == 1 && args[0].Tag == TagStr {
				return StrVal(strings.Trim(s, args[0].Str)), nil
			}
			return StrVal(strings.TrimSpace(s)), nil
		}
	case "lstrip":
		return func(_ *Interp, args []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if len(args) == 1 && args[0].Tag == TagStr {
				return StrVal(strings.TrimLeft(s, args[0].Str)), nil
			}
			return StrVal(strings.TrimLeftFunc(s, unicode.IsSpace)), nil
		}
	case "rstrip":
		return func(_ *Interp, args []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if len(args) == 1 && args[0].Tag == TagStr {
				return StrVal(strings.TrimRight(s, args[0].Str)), nil
			}
			return StrVal(strings.TrimRightFunc(s, unicode.IsSpace)), nil
		}
	case "split":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			var parts []string
			if len(args) == 0 || args[0].Tag == TagNone {
				parts = strings.Fields(s)
			} else {
				if args[0].Tag != TagStr {
					return None(), in.raise("TypeError", line, "must be str or None, not %s", TypeName(args[0]))
				}
				if args[0].Str == "" {
					return None(), in.raise("ValueError", line, "empty separator")
				}
				parts = strings.Split(s, args[0].Str)
			}
			items := make([]Value, len(parts))
			for i, p := range parts {
				items[i] = StrVal(p)
			}
			return ListVal(items), nil
		}
	case "join":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 1 {
				return None(), arityError(in, "join", line, "takes exactly one argument (%d given)", len(args))
			}
			items, err := in.materialize(args[0], line)
			if err != nil {
				return None(), err
			}
			parts := make([]string, len(items))
			for i, v := range items {
				if v.Tag != TagStr {
					return None(), in.raise("TypeError", line, "sequence item %d: expected str instance, %s found", i, TypeName(v))
				}
				parts[i] = v.Str
			}
			return StrVal(strings.Join(parts, s)), nil
		}
	case "replace":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 2 || args[0].Tag != TagStr || args[1].Tag != TagStr {
				return None(), in.raise("TypeError", line, "replace() requires two string arguments")
			}
			count := -1
			if len(args) == 3 && (args[2].Tag == TagInt || args[2].Tag == TagBool) {
				count = int(indexInt(args[2]))
			}
			return StrVal(strings.Replace(s, args[0].Str, args[1].Str, count)), nil
		}
	case "startswith":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || args[0].Tag != TagStr {
				return None(), in.raise("TypeError", line, "startswith first arg must be str")
			}
			return BoolVal(strings.HasPrefix(s, args[0].Str)), nil
		}
	case "endswith":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || args[0].Tag != TagStr {
				return None(), in.raise("TypeError", line, "endswith first arg must be str")
			}
			return BoolVal(strings.HasSuffix(s, args[0].Str)), nil
		}
	case "find":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || args[0].Tag != TagStr {
				return None(), in.raise("TypeError", line, "find first arg must be str")
			}
			return IntVal(int64(strings.Index(s, args[0].Str))), nil
		}
	case "count":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || args[0].Tag != TagStr {
				return None(), in.raise("TypeError", line, "count first arg must be str")
			}
			return IntVal(int64(strings.Count(s, args[0].Str))), nil
		}
	case "isdigit":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if s == "" {
				return BoolVal(false), nil
			}
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return BoolVal(false), nil
				}
			}
			return BoolVal(true), nil
		}
	case "isalpha":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if s == "" {
				return BoolVal(false), nil
			}
			for _, r := range s {
				if !unicode.IsLetter(r) {
					return BoolVal(false), nil
				}
			}
			return BoolVal(true), nil
		}
	case "title":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			var sb strings.Builder
			prevLetter := false
			for _, r := range s {
				if unicode.IsLetter(r) {
					if prevLetter {
						sb.WriteRune(unicode.ToLower(r))
					} else {
						sb.WriteRune(unicode.ToUpper(r))
					}
					prevLetter = true
				} else {
					sb.WriteRune(r)
					prevLetter = false
				}
			}
			return StrVal(sb.String()), nil
		}
	case "capitalize":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			if s == "" {
				return StrVal(""), nil
			}
			runes := []rune(s)
			out := string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
			return StrVal(out), nil
		}
	}
	return nil
}

func dictMethod(obj Value, name string) func(*Interp, []Value, map[string]Value, int) (Value, *RuntimeError) {
	d := obj.Dict
	switch name {
	case "get":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || len(args) > 2 {
				return None(), arityError(in, "get", line, "expected 1 or 2 arguments, got %d", len(args))
			}
			if v, ok := d.Get(args[0]); ok {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return None(), nil
		}
	case "keys":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			out := make([]Value, len(d.Entries))
			for i, e := range d.Entries {
				out[i] = e.Key
			}
			return ListVal(out), nil
		}
	case "values":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			out := make([]Value, len(d.Entries))
			for i, e := range d.Entries {
				out[i] = e.Val
			}
			return ListVal(out), nil
		}
	case "items":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			out := make([]Value, len(d.Entries))
			for i, e := range d.Entries {
				out[i] = TupleVal([]Value{e.Key, e.Val})
			}
			return ListVal(out), nil
		}
	case "pop":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) < 1 || len(args) > 2 {
				return None(), arityError(in, "pop", line, "expected 1 or 2 arguments, got %d", len(args))
			}
			if v, ok := d.Get(args[0]); ok {
				d.Delete(args[0])
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return None(), in.raise("KeyError", line, "%s", Repr(args[0]))
		}
	case "update":
		return func(in *Interp, args []Value, _ map[string]Value, line int) (Value, *RuntimeError) {
			if len(args) != 1 || args[0].Tag != TagDict {
				return None(), in.raise("TypeError", line, "update() argument must be a dict")
			}
			for _, e := range args[0].Dict.Entries {
				d.Set(e.Key, e.Val)
			}
			return None(), nil
		}
	case "clear":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			d.Entries = d.Entries[:0]
			return None(), nil
		}
	case "copy":
		return func(_ *Interp, _ []Value, _ map[string]Value, _ int) (Value, *RuntimeError) {
			return DictVal(append([]DictEntry(nil), d.Entries...)), nil
		}
	}
	return nil
}
