package notary

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
)

// fakeAPI is an in-memory stand-in for the REST API. Records are stored
// exactly as posted (base64) and anchored at height 10. With pending set a
// record has no dblock until it has been read once.
type fakeAPI struct {
	mu       sync.Mutex
	seq      int
	pending  bool
	keys     map[string][]codec.Object // identity chain id -> keys
	chains   map[string]codec.Object
	entries  map[string][]codec.Object // chain id -> entries
	reads    map[string]int            // chain id or entry hash -> GET count
	replaced int
}

func newFakeAPI(t *testing.T) *httptest.Server {
	srv, _ := newFakeAPIWith(t, false)
	return srv
}

func newFakeAPIWith(t *testing.T, pending bool) (*httptest.Server, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{
		pending: pending,
		keys:    map[string][]codec.Object{},
		chains:  map[string]codec.Object{},
		entries: map[string][]codec.Object{},
		reads:   map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/identities", f.createIdentity)
	mux.HandleFunc("GET /v1/identities/{id}/keys", f.listKeys)
	mux.HandleFunc("POST /v1/identities/{id}/keys", f.replaceKey)
	mux.HandleFunc("GET /v1/identities/{id}/keys/{key}", f.getKey)
	mux.HandleFunc("POST /v1/chains", f.createChain)
	mux.HandleFunc("POST /v1/chains/search", f.searchChains)
	mux.HandleFunc("GET /v1/chains/{id}", f.getChain)
	mux.HandleFunc("POST /v1/chains/{id}/entries", f.createEntry)
	mux.HandleFunc("POST /v1/chains/{id}/entries/search", f.searchEntries)
	mux.HandleFunc("GET /v1/chains/{id}/entries/{hash}", f.getEntry)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, f
}

// anchor sets the dblock of a new record unless the API runs in pending mode.
func (f *fakeAPI) anchor(rec codec.Object) codec.Object {
	if !f.pending {
		rec["dblock"] = codec.Object{"height": 10}
	}
	return rec
}

// served replies with rec and anchors it afterwards if it was still pending.
func (f *fakeAPI) served(w http.ResponseWriter, id string, rec codec.Object) {
	f.reads[id]++
	reply(w, http.StatusOK, codec.Object{"data": rec})
	if _, ok := rec["dblock"]; !ok {
		rec["dblock"] = codec.Object{"height": 10}
	}
}

func (f *fakeAPI) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func readBody(r *http.Request) codec.Object {
	raw, _ := io.ReadAll(r.Body)
	var body codec.Object
	_ = codec.JSON.Unmarshal(raw, &body)
	return body
}

func reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	raw, _ := codec.JSON.Marshal(v)
	_, _ = w.Write(raw)
}

func (f *fakeAPI) createIdentity(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body := readBody(r)
	id := f.next("identity")
	for i, k := range body["keys"].([]interface{}) {
		f.keys[id] = append(f.keys[id], codec.Object{
			"key":              k,
			"priority":         i,
			"activated_height": 1,
			"retired_height":   nil,
		})
	}
	reply(w, http.StatusAccepted, codec.Object{"chain_id": id, "entry_hash": f.next("entry"), "stage": "replicated"})
}

func (f *fakeAPI) listKeys(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.keys[r.PathValue("id")]
	reply(w, http.StatusOK, codec.Object{"data": keys, "count": len(keys)})
}

func (f *fakeAPI) getKey(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.keys[r.PathValue("id")] {
		if k["key"] == r.PathValue("key") {
			reply(w, http.StatusOK, codec.Object{"data": k})
			return
		}
	}
	reply(w, http.StatusNotFound, codec.Object{"error": "key not found"})
}

func (f *fakeAPI) replaceKey(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body := readBody(r)
	for _, k := range f.keys[r.PathValue("id")] {
		if k["key"] == body["old_key"] {
			k["retired_height"] = 11
		}
	}
	f.keys[r.PathValue("id")] = append(f.keys[r.PathValue("id")], codec.Object{
		"key":              body["new_key"],
		"activated_height": 11,
		"retired_height":   nil,
	})
	f.replaced++
	reply(w, http.StatusAccepted, codec.Object{"entry_hash": f.next("replace"), "stage": "replicated"})
}

func (f *fakeAPI) createChain(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body := readBody(r)
	id := f.next("chain")
	entryHash := f.next("entry")
	f.chains[id] = f.anchor(codec.Object{
		"chain_id":     id,
		"external_ids": body["external_ids"],
		"content":      body["content"],
	})
	f.entries[id] = append(f.entries[id], f.anchor(codec.Object{
		"entry_hash":   entryHash,
		"chain":        codec.Object{"chain_id": id},
		"external_ids": body["external_ids"],
		"content":      body["content"],
	}))
	reply(w, http.StatusAccepted, codec.Object{"chain_id": id, "entry_hash": entryHash})
}

func (f *fakeAPI) getChain(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chains[r.PathValue("id")]
	if !ok {
		reply(w, http.StatusNotFound, codec.Object{"error": "chain not found"})
		return
	}
	f.served(w, r.PathValue("id"), c)
}

func (f *fakeAPI) createEntry(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.chains[id]; !ok {
		reply(w, http.StatusNotFound, codec.Object{"error": "chain not found"})
		return
	}
	body := readBody(r)
	hash := f.next("entry")
	f.entries[id] = append(f.entries[id], f.anchor(codec.Object{
		"entry_hash":   hash,
		"chain":        codec.Object{"chain_id": id},
		"external_ids": body["external_ids"],
		"content":      body["content"],
	}))
	reply(w, http.StatusAccepted, codec.Object{"entry_hash": hash, "stage": "replicated"})
}

func (f *fakeAPI) getEntry(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries[r.PathValue("id")] {
		if e["entry_hash"] == r.PathValue("hash") {
			f.served(w, r.PathValue("hash"), e)
			return
		}
	}
	reply(w, http.StatusNotFound, codec.Object{"error": "entry not found"})
}

func (f *fakeAPI) searchChains(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := readBody(r)["external_ids"].([]interface{})
	var found []interface{}
	for _, c := range f.chains {
		if containsAll(c["external_ids"], want) {
			found = append(found, codec.Object{"chain_id": c["chain_id"], "external_ids": c["external_ids"]})
		}
	}
	reply(w, http.StatusOK, codec.Object{"data": found, "count": len(found)})
}

func (f *fakeAPI) searchEntries(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := readBody(r)["external_ids"].([]interface{})
	var found []interface{}
	for _, e := range f.entries[r.PathValue("id")] {
		if containsAll(e["external_ids"], want) {
			found = append(found, codec.Object{"entry_hash": e["entry_hash"], "external_ids": e["external_ids"]})
		}
	}
	reply(w, http.StatusOK, codec.Object{"data": found, "count": len(found)})
}

func containsAll(have interface{}, want []interface{}) bool {
	items, _ := have.([]interface{})
	set := make(map[string]bool, len(items))
	for _, it := range items {
		s, _ := it.(string)
		set[strings.TrimSpace(s)] = true
	}
	for _, w := range want {
		s, _ := w.(string)
		if !set[s] {
			return false
		}
	}
	return true
}
