package command

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

func cmdDel(s *store.Store, args [][]byte) wire.Value {
	return wire.Integer(int64(s.Del(args)))
}

func cmdExists(s *store.Store, args [][]byte) wire.Value {
	return wire.Integer(int64(s.Exists(args)))
}

func cmdExpire(s *store.Store, args [][]byte) wire.Value {
	secs, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	ok2, err := s.SetExpire(args[0], time.Duration(secs)*time.Second)
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok2)
}

func cmdPExpire(s *store.Store, args [][]byte) wire.Value {
	ms, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	ok2, err := s.SetExpire(args[0], time.Duration(ms)*time.Millisecond)
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok2)
}

func cmdExpireAt(s *store.Store, args [][]byte) wire.Value {
	unixSec, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	ok2, err := s.SetExpireAtUnix(args[0], unixSec)
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok2)
}

func cmdPExpireAt(s *store.Store, args [][]byte) wire.Value {
	unixMs, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	ttl := time.Until(time.UnixMilli(unixMs))
	ok2, err := s.SetExpire(args[0], ttl)
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok2)
}

func cmdTTL(s *store.Store, args [][]byte) wire.Value {
	ms := s.PTTLMillis(args[0])
	if ms < 0 {
		return wire.Integer(ms)
	}
	return wire.Integer(int64(math.Round(float64(ms) / 1000.0)))
}

func cmdPTTL(s *store.Store, args [][]byte) wire.Value {
	return wire.Integer(s.PTTLMillis(args[0]))
}

func cmdExpireTime(s *store.Store, args [][]byte) wire.Value {
	ms := s.ExpireTimeMillis(args[0])
	if ms < 0 {
		return wire.Integer(ms)
	}
	return wire.Integer(ms / 1000)
}

func cmdPExpireTime(s *store.Store, args [][]byte) wire.Value {
	return wire.Integer(s.ExpireTimeMillis(args[0]))
}

func cmdPersist(s *store.Store, args [][]byte) wire.Value {
	ok, err := s.Persist(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok)
}

func cmdType(s *store.Store, args [][]byte) wire.Value {
	k, found := s.Type(args[0])
	if !found {
		return wire.SimpleString("none")
	}
	return wire.SimpleString(k.String())
}

func cmdKeys(s *store.Store, args [][]byte) wire.Value {
	matches := s.Keys(args[0])
	out := make([]wire.Value, len(matches))
	for i, k := range matches {
		out[i] = wire.Bulk(k)
	}
	return wire.Arr(out)
}

func cmdRename(s *store.Store, args [][]byte) wire.Value {
	_, err := s.Rename(args[0], args[1], false)
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.SimpleString("OK")
}

func cmdRenameNX(s *store.Store, args [][]byte) wire.Value {
	ok, err := s.Rename(args[0], args[1], true)
	if err != nil {
		if errors.Is(err, store.ErrKeyExists) {
			return wire.Integer(0)
		}
		return mapStoreErr(err)
	}
	return boolReply(ok)
}

func cmdCopy(s *store.Store, args [][]byte) wire.Value {
	replace := false
	if len(args) == 3 {
		if strings.ToUpper(string(args[2])) != "REPLACE" {
			return errSyntax()
		}
		replace = true
	}
	ok, err := s.Copy(args[0], args[1], replace)
	if err != nil {
		return mapStoreErr(err)
	}
	return boolReply(ok)
}

func cmdRandomKey(s *store.Store, _ [][]byte) wire.Value {
	k, found := s.RandomKey()
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(k)
}

// cmdScan implements SCAN cursor [MATCH pattern] [COUNT n].
func cmdScan(s *store.Store, args [][]byte) wire.Value {
	cursor, ok := parseUintArg(args[0])
	if !ok {
		return errNotInt()
	}
	var pattern []byte
	count := 10

	i := 1
	for i < len(args) {
		switch strings.ToUpper(string(args[i])) {
		case "MATCH":
			if i+1 >= len(args) {
				return errSyntax()
			}
			pattern = args[i+1]
			i += 2
		case "COUNT":
			if i+1 >= len(args) {
				return errSyntax()
			}
			n, ok := parseIntArg(args[i+1])
			if !ok || n <= 0 {
				return errNotInt()
			}
			count = int(n)
			i += 2
		default:
			return errSyntax()
		}
	}

	next, keys := s.Scan(cursor, pattern, count)
	items := make([]wire.Value, len(keys))
	for i, k := range keys {
		items[i] = wire.Bulk(k)
	}
	return wire.Arr([]wire.Value{
		wire.BulkString(strconv.FormatUint(next, 10)),
		wire.Arr(items),
	})
}

// cmdObject implements the one OBJECT subcommand this server supports:
// OBJECT ENCODING key.
func cmdObject(s *store.Store, args [][]byte) wire.Value {
	sub := strings.ToUpper(string(args[0]))
	if sub != "ENCODING" || len(args) != 2 {
		return wire.Errorf("ERR unknown subcommand or wrong number of arguments for 'object'")
	}
	enc, found := s.Encoding(args[1])
	if !found {
		return errNoSuchKey()
	}
	return wire.BulkString(enc)
}

func cmdFlush(s *store.Store, _ [][]byte) wire.Value {
	s.Flush()
	return wire.SimpleString("OK")
}

func cmdDBSize(s *store.Store, _ [][]byte) wire.Value {
	return wire.Integer(s.DBSize())
}

func boolReply(ok bool) wire.Value {
	if ok {
		return wire.Integer(1)
	}
	return wire.Integer(0)
}
