package store

// matchGlob reports whether name matches pattern using the glob dialect
// KEYS/SCAN support: '*' matches any run of bytes, '?' matches exactly one
// byte, and '[...]' matches one byte against a class that may be negated
// with a leading '^' and may contain 'a-z'-style ranges; '\' escapes the
// next byte literally. Matching operates on raw bytes, not decoded runes,
// per SPEC_FULL.md's open-question decision: a key is an arbitrary byte
// string and the pattern language must not assume valid UTF-8.
func matchGlob(pattern, name []byte) bool {
	return globMatch(pattern, name)
}

func globMatch(pattern, s []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatch(pattern[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		case '[':
			if len(s) == 0 {
				return false
			}
			end, negate, ok := classEnd(pattern)
			if !ok {
				// Unterminated class: treat '[' as a literal byte.
				if s[0] != '[' {
					return false
				}
				s = s[1:]
				pattern = pattern[1:]
				continue
			}
			matched := classMatch(pattern[1:end], s[0])
			if negate {
				matched = !matched
			}
			if !matched {
				return false
			}
			s = s[1:]
			pattern = pattern[end+1:]
		case '\\':
			if len(pattern) >= 2 {
				pattern = pattern[1:]
			}
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		}
	}
	return len(s) == 0
}

// classEnd locates the ']' closing the character class starting at
// pattern[0]=='[', returning its index and whether the class is negated.
func classEnd(pattern []byte) (end int, negate bool, ok bool) {
	i := 1
	if i < len(pattern) && pattern[i] == '^' {
		negate = true
		i++
	}
	start := i
	for i < len(pattern) {
		if pattern[i] == '\\' && i+1 < len(pattern) {
			i += 2
			continue
		}
		if pattern[i] == ']' && i > start {
			return i, negate, true
		}
		i++
	}
	return 0, false, false
}

func classMatch(class []byte, b byte) bool {
	for i := 0; i < len(class); i++ {
		if class[i] == '\\' && i+1 < len(class) {
			i++
			if class[i] == b {
				return true
			}
			continue
		}
		if i+2 < len(class) && class[i+1] == '-' {
			lo, hi := class[i], class[i+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if b >= lo && b <= hi {
				return true
			}
			i += 2
			continue
		}
		if class[i] == b {
			return true
		}
	}
	return false
}
