package invoice

import (
	"errors"

	"github.com/shopspring/decimal"
)

// FallbackSubmitError is shown when the backend rejects a submission without
// a structured detail message.
const FallbackSubmitError = "Failed to create invoice"

// Entity names a cached data bucket affected by a successful submission. The
// hosting application translates these into refreshes; the controller itself
// knows nothing about any cache.
type Entity string

const (
	EntityCustomers Entity = "customers"
	EntityInventory Entity = "inventory"
	EntityDashboard Entity = "dashboard"
)

// detailer is satisfied by remote errors that carry a structured detail
// message (see api.APIError).
type detailer interface {
	ErrorDetail() string
}

// CalcRequest asks the caller to issue one pricing request for the given
// draft snapshot. Seq orders requests by issuance; the controller discards
// responses whose Seq is older than the newest issued.
type CalcRequest struct {
	Seq   uint64
	Draft Draft
}

// SubmitRequest asks the caller to issue the create-invoice call.
type SubmitRequest struct {
	Draft Draft
}

// SubmitOutcome reports the result of a submission attempt.
type SubmitOutcome struct {
	// Invoice is set exactly when the submission succeeded.
	Invoice *CreatedInvoice
	// Affected lists the entities whose cached data is now stale.
	Affected []Entity
	// ErrMessage is the user-visible failure message, empty on success.
	ErrMessage string
}

// Controller owns the draft and its derived calculation result for the
// lifetime of one authoring session. It is an explicit event-driven state
// machine: mutators return a *CalcRequest when a new pricing preview should
// be fetched, and the caller feeds responses back through ApplyCalc and
// ApplySubmit. Single-threaded by contract; the caller serializes access.
type Controller struct {
	draft   Draft
	catalog []CatalogItem

	result     *CalculationResult
	seq        uint64
	appliedSeq uint64

	submitting bool
}

// NewController starts an authoring session against the given inventory
// catalog, with an empty draft holding one default row.
func NewController(catalog []CatalogItem) *Controller {
	return &Controller{
		draft:   NewDraft(),
		catalog: catalog,
	}
}

// Draft returns a snapshot of the current draft.
func (c *Controller) Draft() Draft {
	return c.draft.clone()
}

// Result returns the current calculation result, nil when absent.
func (c *Controller) Result() *CalculationResult {
	return c.result
}

// Submitting reports whether a create call is in flight.
func (c *Controller) Submitting() bool {
	return c.submitting
}

// SetCustomer selects the invoice customer.
func (c *Controller) SetCustomer(id string) *CalcRequest {
	c.draft.CustomerID = id
	return c.recalc()
}

// SetGoldPrice sets the per-gram gold price used for all rows.
func (c *Controller) SetGoldPrice(d decimal.Decimal) *CalcRequest {
	c.draft.GoldPricePerGram = d
	return c.recalc()
}

// SetLaborPct sets the labor cost percentage. Out-of-range values are
// rejected at submit time, not here, so typing is never blocked.
func (c *Controller) SetLaborPct(d decimal.Decimal) *CalcRequest {
	c.draft.LaborCostPct = d
	return c.recalc()
}

// SetProfitPct sets the profit percentage.
func (c *Controller) SetProfitPct(d decimal.Decimal) *CalcRequest {
	c.draft.ProfitPct = d
	return c.recalc()
}

// SetVATPct sets the VAT percentage.
func (c *Controller) SetVATPct(d decimal.Decimal) *CalcRequest {
	c.draft.VATPct = d
	return c.recalc()
}

// AddItem appends a default row.
func (c *Controller) AddItem() *CalcRequest {
	c.draft.Items = append(c.draft.Items, defaultLineItem())
	return c.recalc()
}

// RemoveItem deletes the row at index. Removing the last remaining row is a
// no-op: the item list never shrinks below one.
func (c *Controller) RemoveItem(index int) *CalcRequest {
	if index < 0 || index >= len(c.draft.Items) || len(c.draft.Items) == 1 {
		return nil
	}

	c.draft.Items = append(c.draft.Items[:index], c.draft.Items[index+1:]...)

	return c.recalc()
}

// SelectInventoryItem assigns a catalog item to the row and snaps the row's
// weight to the catalog weight, overwriting any manual edit. An id missing
// from the catalog leaves the row unchanged.
func (c *Controller) SelectInventoryItem(index int, itemID string) *CalcRequest {
	if index < 0 || index >= len(c.draft.Items) {
		return nil
	}

	for _, entry := range c.catalog {
		if entry.ID != itemID {
			continue
		}

		c.draft.Items[index].InventoryItemID = entry.ID
		c.draft.Items[index].WeightGrams = entry.WeightGrams

		return c.recalc()
	}

	return nil
}

// SetQuantity sets the row quantity.
func (c *Controller) SetQuantity(index, quantity int) *CalcRequest {
	if index < 0 || index >= len(c.draft.Items) {
		return nil
	}

	c.draft.Items[index].Quantity = quantity

	return c.recalc()
}

// SetWeight overrides the row weight manually.
func (c *Controller) SetWeight(index int, grams decimal.Decimal) *CalcRequest {
	if index < 0 || index >= len(c.draft.Items) {
		return nil
	}

	c.draft.Items[index].WeightGrams = grams

	return c.recalc()
}

// recalc is the single handler behind every mutation: it clears the stale
// result and, when the draft is calculable, issues exactly one new request
// tagged with the next sequence number. The sequence advances on every
// mutation, calculable or not, so replies to requests issued before an
// invalidating edit are discarded in ApplyCalc.
func (c *Controller) recalc() *CalcRequest {
	c.result = nil
	c.seq++

	if !c.draft.Calculable() {
		return nil
	}

	return &CalcRequest{Seq: c.seq, Draft: c.draft.clone()}
}

// ApplyCalc feeds a pricing response back into the controller. Responses are
// applied last-write-wins by issuance order: a reply to a request older than
// the newest applied one, or older than any request issued since, is
// discarded so late arrivals never resurrect stale numbers. Failures clear
// the result rather than surfacing an error; the preview simply disappears.
func (c *Controller) ApplyCalc(seq uint64, result *CalculationResult, err error) {
	if seq < c.appliedSeq || seq < c.seq {
		return
	}

	c.appliedSeq = seq

	if err != nil || result == nil {
		c.result = nil
		return
	}

	c.result = result
}

// CanSubmit reports whether a submission may start: a current calculation
// result is present, no submission is in flight, and the draft passes the
// full submit rules.
func (c *Controller) CanSubmit() bool {
	return c.result != nil && !c.submitting && len(c.draft.Validate()) == 0
}

// ErrNotSubmittable is returned by BeginSubmit when CanSubmit is false.
var ErrNotSubmittable = errors.New("draft is not submittable")

// BeginSubmit latches the in-flight flag and returns the create request. At
// most one submission is in flight at a time.
func (c *Controller) BeginSubmit() (*SubmitRequest, error) {
	if !c.CanSubmit() {
		return nil, ErrNotSubmittable
	}

	c.submitting = true

	return &SubmitRequest{Draft: c.draft.clone()}, nil
}

// ApplySubmit completes a submission. On success the draft is reset to its
// initial state and the outcome names the entities whose cached data the
// host should refresh. On failure the draft and result are preserved so the
// user can retry without re-entering anything; the message is the backend's
// structured detail when present, otherwise a generic fallback.
func (c *Controller) ApplySubmit(created *CreatedInvoice, err error) SubmitOutcome {
	c.submitting = false

	if err != nil {
		msg := FallbackSubmitError

		var de detailer
		if errors.As(err, &de) && de.ErrorDetail() != "" {
			msg = de.ErrorDetail()
		}

		return SubmitOutcome{ErrMessage: msg}
	}

	c.draft = NewDraft()
	c.result = nil

	return SubmitOutcome{
		Invoice:  created,
		Affected: []Entity{EntityCustomers, EntityInventory, EntityDashboard},
	}
}
