package catalog

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/dgraph-io/badger/v3"
)

// CodeSet is an in-memory set of (vertex count, spiral) keys.
//
// Piping a stream through a CodeSet passes each isomer once and counts the rest in Dupes().
type CodeSet struct {
	db    *badger.DB
	dupes int64
}

func NewCodeSet() *CodeSet {
	return &CodeSet{}
}

func (set *CodeSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *CodeSet) TryAdd(F *fullgen.Fullerene) bool {
	if F == nil {
		return false
	}
	var keyBuf [recordKeySz]byte
	added := set.tryAdd(AppendRecordKey(keyBuf[:0], F.NumVerts, &F.Spiral, F.Jumps))
	if !added {
		set.dupes++
	}
	return added
}

// Dupes returns how many offered isomers were already present.
func (set *CodeSet) Dupes() int64 {
	return set.dupes
}

func (set *CodeSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	// badger retains the key until commit so it can't be a stack buffer
	if err = txn.Set(append([]byte(nil), key...), nil); err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}
	return true
}

func (set *CodeSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
