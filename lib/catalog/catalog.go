package catalog

import (
	"encoding/binary"
	"runtime"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState (varint fields, see marshal)

	NumVerts (uint16 BE), [12]Position (uint16 BE), [k](Face, Length) (uint16 BE each)   => Group, Case, Flags (3 bytes)
	...

A generalized spiral appends its k jumps to the key; plain spirals have none.

Keys sort by vertex count and then by spiral, so a Seek to the min vertex count followed by a forward walk
visits records in the same order the generator canonically ranks them.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	catalogMajorVers = 2024
	catalogMinorVers = 1

	recordKeySz = 2 + 2*fullgen.NumPentagons
	recordValSz = 3

	flagIPR = byte(0x01)
)

type catalogState struct {
	MajorVers  uint64
	MinorVers  uint64
	RunID      string
	NumIsomers map[int]uint64
}

func (st *catalogState) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 64))
	buf.EncodeVarint(st.MajorVers)
	buf.EncodeVarint(st.MinorVers)
	if err := buf.EncodeStringBytes(st.RunID); err != nil {
		return nil, err
	}
	buf.EncodeVarint(uint64(len(st.NumIsomers)))
	for n, count := range st.NumIsomers {
		buf.EncodeVarint(uint64(n))
		buf.EncodeVarint(count)
	}
	return buf.Bytes(), nil
}

func (st *catalogState) Unmarshal(val []byte) error {
	buf := proto.NewBuffer(val)
	var err error
	if st.MajorVers, err = buf.DecodeVarint(); err != nil {
		return err
	}
	if st.MinorVers, err = buf.DecodeVarint(); err != nil {
		return err
	}
	if st.RunID, err = buf.DecodeStringBytes(); err != nil {
		return err
	}
	count, err := buf.DecodeVarint()
	if err != nil {
		return err
	}
	st.NumIsomers = make(map[int]uint64, count)
	for i := uint64(0); i < count; i++ {
		n, err := buf.DecodeVarint()
		if err != nil {
			return err
		}
		if st.NumIsomers[int(n)], err = buf.DecodeVarint(); err != nil {
			return err
		}
	}
	return nil
}

// catalog is a badger-backed store of generated isomers keyed by vertex count and canonical spiral.
type catalog struct {
	ctx        fullgen.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) a catalog at opts.DbPathName.  An empty path opens an in-memory catalog.
func OpenCatalog(ctx fullgen.CatalogContext, opts fullgen.CatalogOpts) (fullgen.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(fullgen.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state = catalogState{
			MajorVers:  catalogMajorVers,
			MinorVers:  catalogMinorVers,
			NumIsomers: make(map[int]uint64),
		}
	}

	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.Wrapf(fullgen.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.Unmarshal(val)
		})
	})
}

func (cat *catalog) flushState() {
	if !cat.stateDirty || cat.db == nil {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := cat.state.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

// SetRunID tags the catalog with the id of the generation run filling it.
func (cat *catalog) SetRunID(runID string) {
	if cat.state.RunID != runID {
		cat.state.RunID = runID
		cat.stateDirty = true
	}
}

// RunID returns the id of the last generation run that filled the catalog (if any).
func (cat *catalog) RunID() string {
	return cat.state.RunID
}

func (cat *catalog) NumIsomers(numVerts int) int64 {
	return int64(cat.state.NumIsomers[numVerts])
}

// AppendRecordKey appends the catalog key for the given vertex count and spiral.
func AppendRecordKey(key []byte, numVerts int, sp *fullgen.Spiral, jumps fullgen.Jumps) []byte {
	key = binary.BigEndian.AppendUint16(key, uint16(numVerts))
	for _, pos := range sp {
		key = binary.BigEndian.AppendUint16(key, uint16(pos))
	}
	for _, j := range jumps {
		key = binary.BigEndian.AppendUint16(key, uint16(j.Face))
		key = binary.BigEndian.AppendUint16(key, uint16(j.Length))
	}
	return key
}

func isRecordKey(key []byte) bool {
	return len(key) >= recordKeySz && (len(key)-recordKeySz)%4 == 0
}

func readRecord(key, val []byte, rec *fullgen.Record) error {
	if !isRecordKey(key) || len(val) != recordValSz {
		return errors.Wrapf(fullgen.ErrBadEncoding, "catalog entry has key size %d and value size %d", len(key), len(val))
	}
	rec.NumVerts = int(binary.BigEndian.Uint16(key))
	for i := range rec.Spiral {
		rec.Spiral[i] = int(binary.BigEndian.Uint16(key[2+2*i:]))
	}
	rec.Jumps = nil
	for off := recordKeySz; off < len(key); off += 4 {
		rec.Jumps = append(rec.Jumps, fullgen.Jump{
			Face:   int(binary.BigEndian.Uint16(key[off:])),
			Length: int(binary.BigEndian.Uint16(key[off+2:])),
		})
	}
	rec.Group = fullgen.PointGroup(val[0])
	rec.Case = fullgen.Case(val[1])
	rec.IPR = val[2]&flagIPR != 0
	return nil
}

// TryAdd adds the given isomer if it is not already present, returning true if it was added.
func (cat *catalog) TryAdd(F *fullgen.Fullerene) bool {
	if cat.readOnly || F == nil {
		return false
	}

	key := AppendRecordKey(make([]byte, 0, recordKeySz), F.NumVerts, &F.Spiral, F.Jumps)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val := []byte{byte(F.Group.Group), byte(F.Case), 0}
	if F.IPR {
		val[2] |= flagIPR
	}
	if err = txn.Set(key, val); err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	cat.state.NumIsomers[F.NumVerts]++
	cat.stateDirty = true
	return true
}

// Select sends all records with a vertex count in range to onHit, in key order.
//
// Filtering by group or IPR is left to the caller (see fullgen.SelectFromCatalog).
func (cat *catalog) Select(sel fullgen.Selector, onHit fullgen.OnRecordHit) {
	var minKey [2]byte
	binary.BigEndian.PutUint16(minKey[:], uint16(sel.MinVerts))

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
	})
	defer it.Close()

	count := 0
	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		if !isRecordKey(key) {
			continue
		}
		if sel.MaxVerts > 0 && int(binary.BigEndian.Uint16(key)) > sel.MaxVerts {
			break
		}

		var rec fullgen.Record
		err := item.Value(func(val []byte) error {
			return readRecord(key, val, &rec)
		})
		if err != nil {
			panic(err)
		}
		onHit <- rec
		count++
	}

	klog.V(2).Infof("catalog: selected %d records for n in [%d, %d]", count, sel.MinVerts, sel.MaxVerts)
}
