package checkout

import (
	"context"
	"errors"
	"fmt"

	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/utils"
)

// ErrCardUnresolved is returned when no payment instrument could be
// resolved for the attempt. Exactly one of a vault card or a tokenized
// card must resolve; absence is a hard failure.
var ErrCardUnresolved = errors.New("failed to pay by the selected card")

type CardSourceKind int

const (
	CardSourceNone CardSourceKind = iota
	// CardSourceVault references a card already stored with the
	// customer's vault record.
	CardSourceVault
	// CardSourceToken references a freshly tokenized card.
	CardSourceToken
)

// CardSource is the resolved payment instrument for one attempt.
type CardSource struct {
	Kind   CardSourceKind
	CardID string
}

// resolveCardSource picks the payment instrument with strict precedence:
// a previously selected vault card (validated to belong to the customer's
// vault) wins over a tokenized card. Tokenized cards come from the
// embedded-fields token when that feature is on, otherwise from
// server-side tokenization of the raw card fields. The consulted custom
// values are consumed exactly once.
func (s *service) resolveCardSource(ctx context.Context, request *PaymentRequest) (CardSource, error) {
	if selectedCardID, ok := request.ConsumeCustomValue(KeySelectedCardID); ok {
		cards, err := s.vault.GetBillingCards(ctx, request.Customer.VaultID())
		if err != nil {
			return CardSource{}, ErrCardUnresolved
		}
		for _, card := range cards {
			if card.CardID == selectedCardID {
				return CardSource{Kind: CardSourceVault, CardID: card.CardID}, nil
			}
		}
		return CardSource{}, ErrCardUnresolved
	}

	cardID, err := s.tokenizedCardID(ctx, request)
	if err != nil {
		return CardSource{}, err
	}
	if cardID == "" {
		return CardSource{}, ErrCardUnresolved
	}
	return CardSource{Kind: CardSourceToken, CardID: cardID}, nil
}

func (s *service) tokenizedCardID(ctx context.Context, request *PaymentRequest) (string, error) {
	if s.settings.UseEmbeddedFields {
		// card data never transited our servers; the token arrived from
		// the provider-hosted fields
		tokenizedCardID, _ := request.ConsumeCustomValue(KeyTokenizedCardID)
		return tokenizedCardID, nil
	}

	var avsAddress, avsZip string
	if billing := request.Customer.BillingAddress; billing != nil {
		avsAddress = utils.Truncate(billing.Line1, 20)
		avsZip = utils.Truncate(billing.Zip, 20)
	}

	return s.gateway.Tokenize(ctx, tokenizeRequest(request.Card, avsAddress, avsZip))
}

func tokenizeRequest(card CardDetails, avsAddress, avsZip string) qualpay.TokenizeRequest {
	return qualpay.TokenizeRequest{
		SingleUse:      true,
		CardholderName: card.CardholderName,
		CardNumber:     card.CardNumber,
		Cvv2:           card.Cvv2,
		ExpDate:        fmt.Sprintf("%02d%02d", card.ExpireMonth, card.ExpireYear%100),
		AvsAddress:     avsAddress,
		AvsZip:         avsZip,
	}
}
