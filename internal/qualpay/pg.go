package qualpay

import (
	"context"
	"net/http"
)

// Transaction processing surface. Every operation is a single attempt;
// rcode "000" is the only success code.

const pgSuccessCode = "000"

// Tokenize converts raw card data into an opaque single-use card id.
func (c *Client) Tokenize(ctx context.Context, request TokenizeRequest) (string, error) {
	return invoke(ctx, c, "tokenize", func(merchantID int64) (string, error) {
		request.MerchantID = merchantID
		request.DeveloperID = developerID

		var response TransactionResponse
		if err := c.pg().do(ctx, http.MethodPost, "/tokenize", request, &response); err != nil {
			return "", err
		}
		if response.Rcode != pgSuccessCode {
			return "", pgError(response.Rcode, response.Rmsg)
		}
		return response.CardID, nil
	})
}

// Authorization places a hold without capturing funds.
func (c *Client) Authorization(ctx context.Context, request TransactionRequest) (*TransactionResponse, error) {
	return c.transact(ctx, "authorization", "/auth", request)
}

// Sale authorizes and captures in one step.
func (c *Client) Sale(ctx context.Context, request TransactionRequest) (*TransactionResponse, error) {
	return c.transact(ctx, "sale", "/sale", request)
}

func (c *Client) transact(ctx context.Context, operation, path string, request TransactionRequest) (*TransactionResponse, error) {
	return invoke(ctx, c, operation, func(merchantID int64) (*TransactionResponse, error) {
		request.MerchantID = merchantID
		request.DeveloperID = developerID

		var response TransactionResponse
		if err := c.pg().do(ctx, http.MethodPost, path, request, &response); err != nil {
			return nil, err
		}
		if response.Rcode != pgSuccessCode {
			return nil, pgError(response.Rcode, response.Rmsg)
		}
		return &response, nil
	})
}

// Capture settles a previously authorized transaction.
func (c *Client) Capture(ctx context.Context, transactionID string, amount float64) (*TransactionResponse, error) {
	return invoke(ctx, c, "capture", func(merchantID int64) (*TransactionResponse, error) {
		request := CaptureRequest{MerchantID: merchantID, DeveloperID: developerID, AmtTran: amount}

		var response TransactionResponse
		if err := c.pg().do(ctx, http.MethodPost, "/capture/"+transactionID, request, &response); err != nil {
			return nil, err
		}
		if response.Rcode != pgSuccessCode {
			return nil, pgError(response.Rcode, response.Rmsg)
		}
		return &response, nil
	})
}

// Void cancels a previously authorized transaction.
func (c *Client) Void(ctx context.Context, transactionID string) (*TransactionResponse, error) {
	return invoke(ctx, c, "void", func(merchantID int64) (*TransactionResponse, error) {
		request := VoidRequest{MerchantID: merchantID, DeveloperID: developerID}

		var response TransactionResponse
		if err := c.pg().do(ctx, http.MethodPost, "/void/"+transactionID, request, &response); err != nil {
			return nil, err
		}
		if response.Rcode != pgSuccessCode {
			return nil, pgError(response.Rcode, response.Rmsg)
		}
		return &response, nil
	})
}

// Refund returns funds from a captured transaction, fully or partially.
func (c *Client) Refund(ctx context.Context, transactionID string, amount float64) (*TransactionResponse, error) {
	return invoke(ctx, c, "refund", func(merchantID int64) (*TransactionResponse, error) {
		request := RefundRequest{MerchantID: merchantID, DeveloperID: developerID, AmtTran: amount}

		var response TransactionResponse
		if err := c.pg().do(ctx, http.MethodPost, "/refund/"+transactionID, request, &response); err != nil {
			return nil, err
		}
		if response.Rcode != pgSuccessCode {
			return nil, pgError(response.Rcode, response.Rmsg)
		}
		return &response, nil
	})
}
