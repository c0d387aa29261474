// Package chat owns the conversational ordering session: a transcript, a
// per-session cart, and a strict phase machine driving classifier calls and
// order submission. Sessions are independent; nothing is shared across them.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"smart-retail-bookstore/internal/assistant"
	ordersvc "smart-retail-bookstore/internal/service/order"
)

// Phase is the session state machine's current state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGreeting
	PhaseListening
	PhaseDispatching
	PhaseAwaitingCheckoutForm
	PhaseSubmittingOrder
	PhaseOrderComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGreeting:
		return "greeting"
	case PhaseListening:
		return "listening"
	case PhaseDispatching:
		return "dispatching"
	case PhaseAwaitingCheckoutForm:
		return "awaiting_checkout_form"
	case PhaseSubmittingOrder:
		return "submitting_order"
	case PhaseOrderComplete:
		return "order_complete"
	default:
		return "unknown"
	}
}

// Classifier turns free text plus optional metadata into a tagged reply.
type Classifier interface {
	Classify(ctx context.Context, message string, metadata map[string]any) (*assistant.Reply, error)
}

// OrderPlacer commits a validated checkout exactly once per call.
type OrderPlacer interface {
	Place(ctx context.Context, in ordersvc.PlacementInput) (*ordersvc.Confirmation, error)
}

// Session is one open chat widget instance. All state is in memory and is
// discarded on close; nothing survives a page reload.
type Session struct {
	id        string
	userID    string
	createdAt time.Time

	mu         sync.Mutex
	phase      Phase
	transcript []Message
	cart       *Cart

	// gen guards against stale network responses: it is bumped on every
	// reset/close, and a response whose captured gen no longer matches is
	// discarded without touching session state.
	gen        uint64
	cancelCall context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc

	classifier Classifier
	orders     OrderPlacer
}

func newSession(id, userID string, classifier Classifier, orders OrderPlacer) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:         id,
		userID:     userID,
		createdAt:  time.Now().UTC(),
		phase:      PhaseIdle,
		cart:       NewCart(),
		ctx:        ctx,
		cancel:     cancel,
		classifier: classifier,
		orders:     orders,
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Transcript returns a copy of the full message history.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) CartLines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Session) CartTotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalCents()
}

// Open moves an idle session to Greeting and appends the welcome message.
// Opening an already-open session is a no-op, so the welcome appears once.
func (s *Session) Open() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return nil
	}
	s.phase = PhaseGreeting
	s.transcript = append(s.transcript, botText(welcomeText))
	return s.delta(len(s.transcript) - 1)
}

// SubmitUserText runs one conversational turn: append the user's message,
// dispatch it to the classifier, and append the bot's response messages.
// "quit" and "clear" are reserved commands that bypass the classifier.
// Classifier failures are swallowed into an apology message; the session
// always returns to an interactive phase.
func (s *Session) SubmitUserText(text string, metadata map[string]any) ([]Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()

	switch strings.ToLower(trimmed) {
	case "quit":
		s.closeLocked()
		s.mu.Unlock()
		return nil, nil
	case "clear":
		s.resetLocked()
		msgs := s.delta(len(s.transcript) - 1)
		s.mu.Unlock()
		return msgs, nil
	}

	if err := s.requirePhaseLocked(PhaseGreeting, PhaseListening); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	mark := len(s.transcript)
	s.transcript = append(s.transcript, userText(trimmed))
	s.phase = PhaseDispatching
	gen := s.gen
	callCtx, cancel := context.WithCancel(s.ctx)
	s.cancelCall = cancel
	s.mu.Unlock()

	reply, err := s.classifier.Classify(callCtx, trimmed, metadata)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Session was reset or closed while the call was in flight.
		return nil, nil
	}
	s.cancelCall = nil

	if err != nil {
		s.transcript = append(s.transcript, botText(classifierApologyText))
		s.phase = PhaseListening
		return s.delta(mark), nil
	}

	s.appendReplyLocked(reply)
	return s.delta(mark), nil
}

func (s *Session) appendReplyLocked(reply *assistant.Reply) {
	switch reply.Type {
	case assistant.TypeGreeting, assistant.TypeClarification, assistant.TypeOrderQuestion:
		s.transcript = append(s.transcript, botText(reply.Text))

	case assistant.TypeRecommendation:
		books := make([]BookRef, 0, len(reply.Recommendations))
		for _, rec := range reply.Recommendations {
			reason := rec.Reason
			if reason == "" {
				reason = reasonPlaceholderText
			}
			books = append(books, BookRef{
				ID:          rec.BookID,
				Title:       rec.Title,
				PriceCents:  rec.PriceCents,
				ImageURL:    rec.ImageURL,
				Pages:       rec.Pages,
				ReleaseYear: rec.ReleaseYear,
				Reason:      reason,
			})
		}
		s.transcript = append(s.transcript,
			botText(recommendationIntroText),
			Message{Content: books, Sender: SenderBot, Kind: KindRecommendations},
			botText(recommendationFollowUpText),
		)

	case assistant.TypeOrderList:
		if len(reply.Orders) == 0 {
			s.transcript = append(s.transcript, botText(noOrdersText))
			break
		}
		s.transcript = append(s.transcript,
			botText(orderListIntroText),
			Message{Content: reply.Orders, Sender: SenderBot, Kind: KindOrderList},
			botText(orderListFollowUpText),
		)

	case assistant.TypeOrderInfo:
		s.transcript = append(s.transcript,
			botText(orderInfoIntroText),
			Message{Content: reply.OrderInfo, Sender: SenderBot, Kind: KindOrderInfo},
		)

	case assistant.TypeOrderConfirmation:
		s.transcript = append(s.transcript,
			Message{Content: reply.Confirmation, Sender: SenderBot, Kind: KindOrderConfirmation},
		)
		s.cart.Clear()
		s.phase = PhaseOrderComplete
		return
	}

	s.phase = PhaseListening
}

// AddToCart is allowed in any open phase except while an order submission is
// in flight. Returns a transient notice for the UI; the notice carries no
// state-machine meaning.
func (s *Session) AddToCart(book BookRef) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseIdle {
		return "", ErrSessionClosed
	}
	if s.phase == PhaseSubmittingOrder {
		return "", ErrSubmitInFlight
	}
	s.cart.Add(book)
	return fmt.Sprintf("%q added to cart", book.Title), nil
}

func (s *Session) RemoveFromCart(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseIdle {
		return ErrSessionClosed
	}
	if s.phase == PhaseSubmittingOrder {
		return ErrSubmitInFlight
	}
	s.cart.Remove(key)
	return nil
}

// RequestCheckout opens the shipping/payment form. The phase is left
// untouched when the cart is empty.
func (s *Session) RequestCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAwaitingCheckoutForm {
		return nil
	}
	if err := s.requirePhaseLocked(PhaseGreeting, PhaseListening); err != nil {
		return err
	}
	if s.cart.Len() == 0 {
		return ErrEmptyCart
	}
	s.phase = PhaseAwaitingCheckoutForm
	return nil
}

func (s *Session) CancelCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAwaitingCheckoutForm {
		return fmt.Errorf("%w: %s", ErrInvalidPhase, s.phase)
	}
	s.phase = PhaseListening
	return nil
}

// SubmitOrder validates the checkout form against the cart and commits the
// order at most once. On success the cart is cleared and the session ends in
// OrderComplete; on failure the cart is left intact for a retry and the
// session returns to Listening with an apology appended.
func (s *Session) SubmitOrder(form ordersvc.UserDetails) (*ordersvc.Confirmation, []Message, error) {
	s.mu.Lock()

	if s.phase == PhaseSubmittingOrder {
		s.mu.Unlock()
		return nil, nil, ErrSubmitInFlight
	}
	if err := s.requirePhaseLocked(PhaseGreeting, PhaseListening, PhaseAwaitingCheckoutForm); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return nil, nil, ErrEmptyCart
	}
	if missing := missingFormFields(form); len(missing) > 0 {
		s.mu.Unlock()
		return nil, nil, &IncompleteFormError{Missing: missing}
	}
	if err := ordersvc.ValidateCard(form); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}

	input := ordersvc.PlacementInput{
		UserID:  s.userID,
		Details: form,
	}
	for _, line := range s.cart.Lines() {
		input.Lines = append(input.Lines, ordersvc.PlacementLine{
			BookID:         line.Book.ID,
			Title:          line.Book.Title,
			UnitPriceCents: line.Book.PriceCents,
			Quantity:       line.Quantity,
		})
	}

	mark := len(s.transcript)
	s.phase = PhaseSubmittingOrder
	gen := s.gen
	callCtx, cancel := context.WithCancel(s.ctx)
	s.cancelCall = cancel
	s.mu.Unlock()

	conf, err := s.orders.Place(callCtx, input)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, nil, ErrSessionReset
	}
	s.cancelCall = nil

	if err != nil {
		s.transcript = append(s.transcript, botText(orderApologyText))
		s.phase = PhaseListening
		return nil, s.delta(mark), fmt.Errorf("%w: %v", ErrOrderSubmission, err)
	}

	s.transcript = append(s.transcript,
		Message{Content: conf, Sender: SenderBot, Kind: KindOrderConfirmation},
	)
	s.cart.Clear()
	s.phase = PhaseOrderComplete
	return conf, s.delta(mark), nil
}

// Reset clears transcript and cart and re-enters Greeting. It is the only
// transition allowed from every phase, including OrderComplete.
func (s *Session) Reset() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.delta(len(s.transcript) - 1)
}

// Close discards all session state. Any in-flight call is cancelled; its
// late response will be dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) resetLocked() {
	s.gen++
	if s.cancelCall != nil {
		s.cancelCall()
		s.cancelCall = nil
	}
	s.transcript = nil
	s.cart.Clear()
	s.phase = PhaseGreeting
	s.transcript = append(s.transcript, botText(welcomeText))
}

func (s *Session) closeLocked() {
	s.gen++
	if s.cancelCall != nil {
		s.cancelCall()
		s.cancelCall = nil
	}
	s.cancel()
	s.transcript = nil
	s.cart.Clear()
	s.phase = PhaseIdle
}

func (s *Session) requirePhaseLocked(allowed ...Phase) error {
	for _, p := range allowed {
		if s.phase == p {
			return nil
		}
	}
	switch s.phase {
	case PhaseIdle:
		return ErrSessionClosed
	case PhaseDispatching:
		return ErrBusy
	case PhaseSubmittingOrder:
		return ErrSubmitInFlight
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPhase, s.phase)
	}
}

// delta copies the transcript tail starting at mark.
func (s *Session) delta(mark int) []Message {
	if mark < 0 || mark > len(s.transcript) {
		return nil
	}
	out := make([]Message, len(s.transcript)-mark)
	copy(out, s.transcript[mark:])
	return out
}

func missingFormFields(form ordersvc.UserDetails) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("name", form.Name)
	check("street", form.Street)
	check("city", form.City)
	check("state", form.State)
	check("zip_code", form.ZipCode)
	check("cardNumber", form.CardNumber)
	check("expiryDate", form.ExpiryDate)
	check("cvv", form.CVV)
	return missing
}
