// Package notary walks through a document notarization with the SDK: an
// identity signs a customer chain and a document entry, both are read back
// and validated, and finally the identity's keys are rotated.
package notary

import (
	"context"
	"time"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/chain"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/event"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/harmony"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/identity"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/net"
)

const (
	appName     = "NotarySimulation"
	customerID  = "cust123"
	documentID  = "doc987"
	chainTag    = "CustomerChain"
	entryTag    = "DocumentEntry"
	documentURL = "/document"

	chainContent = "This chain represents a notary service's customer in the NotarySimulation, " +
		"a sample implementation provided as part of the Factom Harmony SDKs."

	timestampIndex = 5
)

// Steps of a run, in order.
const (
	StepCreateIdentity = "create_identity"
	StepCreateChain    = "create_chain"
	StepGetChain       = "get_chain"
	StepHashDocument   = "hash_document"
	StepCreateEntry    = "create_entry"
	StepGetEntry       = "get_entry"
	StepSearchChains   = "search_chains"
	StepValidateChain  = "validate_chain"
	StepSearchEntries  = "search_entries"
	StepValidateEntry  = "validate_entry"
	StepRehashDocument = "rehash_document"
	StepReplaceKeys    = "replace_keys"
	StepListKeys       = "list_keys"
)

// Document is the stored copy of a notarized file.
type Document struct {
	Link string `json:"link"`
	Hash string `json:"hash"`
}

// RecordInfo summarizes a chain or entry read back from the API.
type RecordInfo struct {
	ChainID     string        `json:"chainId,omitempty"`
	EntryHash   string        `json:"entryHash,omitempty"`
	ExternalIDs []interface{} `json:"externalIds"`
	Content     string        `json:"content,omitempty"`
	Status      string        `json:"status,omitempty"`
}

// Result collects everything a run produced.
type Result struct {
	OriginalKeyPairs          []idkey.KeyPair `json:"originalKeyPairs"`
	IdentityChainID           string          `json:"identityChainId"`
	Document                  Document        `json:"document"`
	CreatedChainInfo          RecordInfo      `json:"createdChainInfo"`
	CreatedEntryInfo          RecordInfo      `json:"createdEntryInfo"`
	ChainSearchInput          []string        `json:"chainSearchInput"`
	ChainSearchResult         interface{}     `json:"chainSearchResult"`
	ChainWValidation          RecordInfo      `json:"chainWValidation"`
	EntrySearchInput          []string        `json:"entrySearchInput"`
	SearchEntryResults        codec.Object    `json:"searchEntryResults"`
	EntryWValidation          RecordInfo      `json:"entryWValidation"`
	DocumentAfter             Document        `json:"documentAfter"`
	Tampered                  bool            `json:"tampered"`
	ReplaceKeyPairs           []idkey.KeyPair `json:"replaceKeyPairs"`
	ReplacementEntryResponses []codec.Object  `json:"replacementEntryResponses"`
	IdentityKeys              codec.Object    `json:"identityKeys"`
}

// Runner executes the workflow against one client.
type Runner struct {
	client   *harmony.Client
	bus      *event.Bus
	hashType utils.HashType
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithBus publishes step events on b.
func WithBus(b *event.Bus) Option {
	return func(r *Runner) { r.bus = b }
}

// WithHashType selects the document digest. The default is sha256.
func WithHashType(t utils.HashType) Option {
	return func(r *Runner) { r.hashType = t }
}

// NewRunner returns a Runner for c.
func NewRunner(c *harmony.Client, opts ...Option) *Runner {
	r := &Runner{client: c, hashType: utils.HashSHA256, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run notarizes the file at documentPath.
func (r *Runner) Run(ctx context.Context, documentPath string) (*Result, error) {
	ctx = logtrace.CtxWithOrigin(logtrace.EnsureCorrelationID(ctx), logtrace.ValueNotary)
	runID := logtrace.CorrelationIDFromContext(ctx)
	start := r.now()

	r.publish(ctx, event.NewEvent(event.WorkflowStarted, runID, "", nil))
	res, err := r.run(ctx, runID, documentPath)
	if err != nil {
		r.publish(ctx, event.NewEvent(event.WorkflowFailed, runID, "", map[string]interface{}{
			string(event.KeyError): err.Error(),
		}))
		return nil, err
	}
	r.publish(ctx, event.NewEvent(event.WorkflowCompleted, runID, "", map[string]interface{}{
		string(event.KeyElapsedSec): r.now().Sub(start).Seconds(),
	}))
	return res, nil
}

func (r *Runner) run(ctx context.Context, runID, documentPath string) (*Result, error) {
	res := &Result{}
	ids := r.client.Identities()
	chains := r.client.Chains()
	entries := r.client.Entries()

	// The API generates no keys; three pairs are made locally and the
	// lowest priority one signs.
	var keyToSign idkey.KeyPair
	err := r.step(ctx, runID, StepCreateIdentity, func() (map[string]interface{}, error) {
		out, err := ids.CreateWithGeneratedKeys(ctx, identity.CreateRequest{
			Name: []string{appName, r.now().UTC().Format(time.RFC3339Nano)},
		})
		if err != nil {
			return nil, err
		}
		res.OriginalKeyPairs, _ = out["key_pairs"].([]idkey.KeyPair)
		if len(res.OriginalKeyPairs) == 0 {
			return nil, errors.New("identity response carries no key pairs")
		}
		res.IdentityChainID, _ = out["chain_id"].(string)
		keyToSign = res.OriginalKeyPairs[len(res.OriginalKeyPairs)-1]
		return map[string]interface{}{string(event.KeyChainID): res.IdentityChainID}, nil
	})
	if err != nil {
		return nil, err
	}

	var chainID string
	err = r.step(ctx, runID, StepCreateChain, func() (map[string]interface{}, error) {
		out, err := chains.Create(ctx, chain.WriteRequest{
			Content:          chainContent,
			ExternalIDs:      []string{appName, chainTag, customerID},
			SignerChainID:    res.IdentityChainID,
			SignerPrivateKey: keyToSign.PrivateKey,
		})
		if err != nil {
			return nil, err
		}
		chainID, _ = out["chain_id"].(string)
		return map[string]interface{}{string(event.KeyChainID): chainID}, nil
	})
	if err != nil {
		return nil, err
	}

	var chainCreated string
	err = r.step(ctx, runID, StepGetChain, func() (map[string]interface{}, error) {
		out, err := chains.Get(ctx, chainID, chain.GetOptions{})
		if err != nil {
			return nil, err
		}
		res.CreatedChainInfo = recordInfo(out)
		chainCreated, err = timestampOf(res.CreatedChainInfo)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	err = r.step(ctx, runID, StepHashDocument, func() (map[string]interface{}, error) {
		h, err := utils.HashFileHex(documentPath, r.hashType)
		if err != nil {
			return nil, err
		}
		res.Document = Document{Link: documentURL, Hash: h}
		return map[string]interface{}{string(event.KeyHash): h, string(event.KeyHashType): string(r.hashType)}, nil
	})
	if err != nil {
		return nil, err
	}

	var entryHash string
	err = r.step(ctx, runID, StepCreateEntry, func() (map[string]interface{}, error) {
		content, err := codec.JSON.MarshalToString(map[string]string{
			"document_hash": res.Document.Hash,
			"hash_type":     string(r.hashType),
		})
		if err != nil {
			return nil, errors.Errorf("marshal entry content: %w", err)
		}
		out, err := entries.Create(ctx, chainID, chain.WriteRequest{
			Content:          content,
			ExternalIDs:      []string{appName, entryTag, documentID},
			SignerChainID:    res.IdentityChainID,
			SignerPrivateKey: keyToSign.PrivateKey,
		})
		if err != nil {
			return nil, err
		}
		entryHash, _ = out["entry_hash"].(string)
		return map[string]interface{}{string(event.KeyEntryHash): entryHash}, nil
	})
	if err != nil {
		return nil, err
	}

	var entryCreated string
	err = r.step(ctx, runID, StepGetEntry, func() (map[string]interface{}, error) {
		out, err := entries.Get(ctx, chainID, entryHash, chain.GetOptions{})
		if err != nil {
			return nil, err
		}
		res.CreatedEntryInfo = recordInfo(out)
		entryCreated, err = timestampOf(res.CreatedEntryInfo)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	var foundChainID string
	err = r.step(ctx, runID, StepSearchChains, func() (map[string]interface{}, error) {
		res.ChainSearchInput = []string{res.IdentityChainID, customerID, chainCreated}
		out, err := chains.Search(ctx, res.ChainSearchInput, net.ListOptions{})
		if err != nil {
			return nil, err
		}
		res.ChainSearchResult = out["data"]
		foundChainID, err = firstField(out, "chain_id")
		return map[string]interface{}{string(event.KeyChainID): foundChainID}, err
	})
	if err != nil {
		return nil, err
	}

	err = r.step(ctx, runID, StepValidateChain, func() (map[string]interface{}, error) {
		out, err := chains.Get(ctx, foundChainID, chain.GetOptions{SignatureValidation: true})
		if err != nil {
			return nil, err
		}
		rec, _ := out["chain"].(map[string]interface{})
		res.ChainWValidation = recordInfo(rec)
		res.ChainWValidation.Status, _ = out["status"].(string)
		return map[string]interface{}{string(event.KeyStatus): res.ChainWValidation.Status}, nil
	})
	if err != nil {
		return nil, err
	}

	var foundEntryHash string
	err = r.step(ctx, runID, StepSearchEntries, func() (map[string]interface{}, error) {
		res.EntrySearchInput = []string{entryTag, documentID, entryCreated}
		out, err := entries.Search(ctx, foundChainID, res.EntrySearchInput, net.ListOptions{})
		if err != nil {
			return nil, err
		}
		res.SearchEntryResults = out
		foundEntryHash, err = firstField(out, "entry_hash")
		return map[string]interface{}{string(event.KeyEntryHash): foundEntryHash}, err
	})
	if err != nil {
		return nil, err
	}

	err = r.step(ctx, runID, StepValidateEntry, func() (map[string]interface{}, error) {
		out, err := entries.Get(ctx, foundChainID, foundEntryHash, chain.GetOptions{SignatureValidation: true})
		if err != nil {
			return nil, err
		}
		rec, _ := out["entry"].(map[string]interface{})
		res.EntryWValidation = recordInfo(rec)
		res.EntryWValidation.Status, _ = out["status"].(string)
		return map[string]interface{}{string(event.KeyStatus): res.EntryWValidation.Status}, nil
	})
	if err != nil {
		return nil, err
	}

	err = r.step(ctx, runID, StepRehashDocument, func() (map[string]interface{}, error) {
		h, err := utils.HashFileHex(documentPath, r.hashType)
		if err != nil {
			return nil, err
		}
		res.DocumentAfter = Document{Link: documentURL, Hash: h}
		res.Tampered = h != res.Document.Hash
		return map[string]interface{}{string(event.KeyHash): h}, nil
	})
	if err != nil {
		return nil, err
	}

	// Each original key is replaced using its own private key, which has
	// the same priority.
	err = r.step(ctx, runID, StepReplaceKeys, func() (map[string]interface{}, error) {
		pairs, err := idkey.GenerateKeyPairs(len(res.OriginalKeyPairs))
		if err != nil {
			return nil, err
		}
		res.ReplaceKeyPairs = pairs
		for i, next := range pairs {
			prev := res.OriginalKeyPairs[i]
			out, err := ids.Keys().Replace(ctx, identity.ReplaceRequest{
				ChainID:          res.IdentityChainID,
				OldPublicKey:     prev.PublicKey,
				NewPublicKey:     next.PublicKey,
				SignerPrivateKey: prev.PrivateKey,
			})
			if err != nil {
				return nil, err
			}
			res.ReplacementEntryResponses = append(res.ReplacementEntryResponses, out)
		}
		return map[string]interface{}{string(event.KeyCount): len(pairs)}, nil
	})
	if err != nil {
		return nil, err
	}

	err = r.step(ctx, runID, StepListKeys, func() (map[string]interface{}, error) {
		out, err := ids.Keys().List(ctx, res.IdentityChainID, net.ListOptions{})
		if err != nil {
			return nil, err
		}
		res.IdentityKeys = out
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (r *Runner) step(ctx context.Context, runID, name string, fn func() (map[string]interface{}, error)) error {
	r.publish(ctx, event.NewEvent(event.StepStarted, runID, name, nil))
	logtrace.Debug(ctx, "Notary step started", logtrace.Fields{"step": name})

	data, err := fn()
	if err != nil {
		logtrace.Error(ctx, "Notary step failed", logtrace.Fields{"step": name, logtrace.FieldError: err.Error()})
		r.publish(ctx, event.NewEvent(event.StepFailed, runID, name, map[string]interface{}{
			string(event.KeyError): err.Error(),
		}))
		return errors.Errorf("%s: %w", name, err)
	}

	r.publish(ctx, event.NewEvent(event.StepCompleted, runID, name, data))
	return nil
}

func (r *Runner) publish(ctx context.Context, e event.Event) {
	if r.bus != nil {
		r.bus.Publish(ctx, e)
	}
}

func recordInfo(rec map[string]interface{}) RecordInfo {
	data := rec
	if d, ok := rec["data"].(map[string]interface{}); ok {
		data = d
	}
	info := RecordInfo{}
	info.ChainID, _ = data["chain_id"].(string)
	if info.ChainID == "" {
		if c, ok := data["chain"].(map[string]interface{}); ok {
			info.ChainID, _ = c["chain_id"].(string)
		}
	}
	info.EntryHash, _ = data["entry_hash"].(string)
	info.ExternalIDs, _ = data["external_ids"].([]interface{})
	info.Content, _ = data["content"].(string)
	return info
}

func timestampOf(info RecordInfo) (string, error) {
	if len(info.ExternalIDs) <= timestampIndex {
		return "", errors.New("record has no signature timestamp")
	}
	ts, ok := info.ExternalIDs[timestampIndex].(string)
	if !ok {
		return "", errors.New("signature timestamp is not a string")
	}
	return ts, nil
}

func firstField(out codec.Object, field string) (string, error) {
	items, _ := out["data"].([]interface{})
	if len(items) == 0 {
		return "", errors.New("search returned no results")
	}
	item, _ := items[0].(map[string]interface{})
	v, _ := item[field].(string)
	if v == "" {
		return "", errors.Errorf("search result has no %s", field)
	}
	return v, nil
}
