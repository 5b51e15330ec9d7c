package neighbor

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nullgraph/lldpd/pkg/codec"
	"github.com/nullgraph/lldpd/pkg/lldperr"
	"github.com/nullgraph/lldpd/pkg/logging"
)

// UpsertResult reports whether an upsert created a new record or merged
// into an existing one.
type UpsertResult int

const (
	Updated UpsertResult = iota
	Created
)

// wireRecord is the on-disk shape of a Record: ISO-8601 UTC millisecond
// timestamps and a neighbors wrapper object, per spec section 4.2.
type wireRecord struct {
	Interface             string   `json:"interface"`
	ChassisIDSubtype      uint8    `json:"chassis_id_subtype"`
	ChassisID             string   `json:"chassis_id"`
	PortIDSubtype         uint8    `json:"port_id_subtype"`
	PortID                string   `json:"port_id"`
	PortDescription       string   `json:"port_description,omitempty"`
	SystemName            string   `json:"system_name,omitempty"`
	SystemDescription     string   `json:"system_description,omitempty"`
	CapabilitiesSupported uint16   `json:"capabilities_supported"`
	CapabilitiesEnabled   uint16   `json:"capabilities_enabled"`
	ManagementAddresses   []string `json:"management_addresses,omitempty"`
	ReceivedTTL           uint16   `json:"received_ttl"`
	FirstSeen             string   `json:"first_seen"`
	LastSeen              string   `json:"last_seen"`
	RawTLVDumpHex         string   `json:"raw_tlv_dump_hex,omitempty"`
}

type wireSnapshot struct {
	Neighbors []wireRecord `json:"neighbors"`
}

const isoMilli = "2006-01-02T15:04:05.000Z"

// Store is a file-backed, cross-process-safe neighbor table.
type Store struct {
	path     string
	lockPath string
}

// New returns a Store backed by path, with an advisory lock sidecar at
// path+".lock".
func New(path string) *Store {
	return &Store{path: path, lockPath: path + ".lock"}
}

// loadRetryBackoff is the brief pause before a single retry of a failed
// load, per spec section 4.2: "if parse fails, they retry once after a
// brief backoff and then treat the store as empty for that call."
const loadRetryBackoff = 50 * time.Millisecond

// Load reads the full snapshot. A missing file is treated as an empty
// store with no retry. A malformed file is retried once after a brief
// backoff; if the retry also fails, the error is logged once and an empty
// snapshot is returned rather than failing the call (spec section 4.2).
func (s *Store) Load() []Record {
	records, err := s.tryLoad()
	if err == nil {
		return records
	}
	if os.IsNotExist(err) {
		return nil
	}

	time.Sleep(loadRetryBackoff)
	records, err = s.tryLoad()
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warning("neighbor store %s unreadable after retry, treating as empty: %v", s.path, err)
		}
		return nil
	}
	return records
}

func (s *Store) tryLoad() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var snap wireSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, lldperr.New(lldperr.StoreCorrupt, err)
	}
	out := make([]Record, 0, len(snap.Neighbors))
	for _, w := range snap.Neighbors {
		out = append(out, fromWire(w))
	}
	return out, nil
}

// Upsert merges record into the store under an exclusive lock, preserving
// first-seen on an existing key and refreshing last-seen and mutable
// fields otherwise.
func (s *Store) Upsert(record Record) (UpsertResult, error) {
	unlock, err := acquireLock(s.lockPath)
	if err != nil {
		return Updated, err
	}
	defer unlock()

	records, loadErr := s.tryLoad()
	if loadErr != nil && !os.IsNotExist(loadErr) {
		// A corrupt store must not silently absorb writes over lost data;
		// refuse the upsert (spec section 7: "on write, refuse to
		// overwrite and abort the upsert").
		return Updated, loadErr
	}

	result := Created
	key := record.Key()
	found := false
	for i, existing := range records {
		if existing.Key() == key {
			records[i] = mergeInto(existing, record)
			found = true
			result = Updated
			break
		}
	}
	if !found {
		records = append(records, record)
	}

	if err := s.writeAtomic(records); err != nil {
		return result, err
	}
	return result, nil
}

// ListLive returns all non-expired records as of now, ordered by
// (interface, last_seen desc) per spec section 4.2.
func (s *Store) ListLive(now time.Time) []Record {
	all := s.Load()
	live := make([]Record, 0, len(all))
	for _, r := range all {
		if r.IsLive(now) {
			live = append(live, r)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].Interface != live[j].Interface {
			return live[i].Interface < live[j].Interface
		}
		return live[i].LastSeen.After(live[j].LastSeen)
	})
	return live
}

// Clear truncates the store to empty.
func (s *Store) Clear() error {
	unlock, err := acquireLock(s.lockPath)
	if err != nil {
		return err
	}
	defer unlock()
	return s.writeAtomic(nil)
}

// AgeOut physically removes records expired as of now.
func (s *Store) AgeOut(now time.Time) error {
	unlock, err := acquireLock(s.lockPath)
	if err != nil {
		return err
	}
	defer unlock()

	records, loadErr := s.tryLoad()
	if loadErr != nil && !os.IsNotExist(loadErr) {
		return loadErr
	}
	kept := records[:0]
	for _, r := range records {
		if r.IsLive(now) {
			kept = append(kept, r)
		}
	}
	return s.writeAtomic(kept)
}

// writeAtomic serializes records and commits them via write-to-temp +
// rename, so readers never observe a partial write (spec section 4.2 /
// section 5).
func (s *Store) writeAtomic(records []Record) error {
	snap := wireSnapshot{Neighbors: make([]wireRecord, 0, len(records))}
	for _, r := range records {
		snap.Neighbors = append(snap.Neighbors, toWire(r))
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return lldperr.New(lldperr.StoreCorrupt, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".neighbors-*.tmp")
	if err != nil {
		return lldperr.New(lldperr.StoreCorrupt, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return lldperr.New(lldperr.StoreCorrupt, err)
	}
	if err := tmp.Close(); err != nil {
		return lldperr.New(lldperr.StoreCorrupt, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return lldperr.New(lldperr.StoreCorrupt, err)
	}
	return nil
}

func toWire(r Record) wireRecord {
	w := wireRecord{
		Interface:             r.Interface,
		ChassisIDSubtype:      uint8(r.ChassisIDSubtype),
		ChassisID:             r.ChassisID,
		PortIDSubtype:         uint8(r.PortIDSubtype),
		PortID:                r.PortID,
		PortDescription:       r.PortDescription,
		SystemName:            r.SystemName,
		SystemDescription:     r.SystemDescription,
		CapabilitiesSupported: r.CapabilitiesSupported,
		CapabilitiesEnabled:   r.CapabilitiesEnabled,
		ManagementAddresses:   r.ManagementAddresses,
		ReceivedTTL:           r.ReceivedTTL,
		FirstSeen:             r.FirstSeen.UTC().Format(isoMilli),
		LastSeen:              r.LastSeen.UTC().Format(isoMilli),
	}
	if len(r.RawTLVDump) > 0 {
		w.RawTLVDumpHex = hex.EncodeToString(r.RawTLVDump)
	}
	return w
}

func fromWire(w wireRecord) Record {
	firstSeen, _ := time.Parse(isoMilli, w.FirstSeen)
	lastSeen, _ := time.Parse(isoMilli, w.LastSeen)
	return Record{
		Interface:             w.Interface,
		ChassisIDSubtype:      codec.ChassisIDSubtype(w.ChassisIDSubtype),
		ChassisID:             w.ChassisID,
		PortIDSubtype:         codec.PortIDSubtype(w.PortIDSubtype),
		PortID:                w.PortID,
		PortDescription:       w.PortDescription,
		SystemName:            w.SystemName,
		SystemDescription:     w.SystemDescription,
		CapabilitiesSupported: w.CapabilitiesSupported,
		CapabilitiesEnabled:   w.CapabilitiesEnabled,
		ManagementAddresses:   w.ManagementAddresses,
		ReceivedTTL:           w.ReceivedTTL,
		FirstSeen:             firstSeen,
		LastSeen:              lastSeen,
		RawTLVDump:            decodeRawDump(w.RawTLVDumpHex),
	}
}

func decodeRawDump(hexStr string) []byte {
	if hexStr == "" {
		return nil
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil
	}
	return b
}
