package rest

import (
	"context"
	"net/http"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/ledger"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/statement"
)

type createAccountPayload struct {
	OwnerName string `json:"owner_name" validate:"required"`
}

type movementPayload struct {
	Amount int64  `json:"amount" validate:"required,min=1"`
	Memo   string `json:"memo"`
}

type transferPayload struct {
	SourceAccountID string `json:"source_account_id" validate:"required"`
	DestAccountID   string `json:"dest_account_id" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,min=1"`
	Memo            string `json:"memo"`
}

func createAccountHandler(svc ledger.Service) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		payload := createAccountPayload{}
		if err := h.BindPayload(&payload); err != nil {
			return err
		}
		account, err := svc.CreateAccount(req.Context(), payload.OwnerName)
		if err != nil {
			return asHTTPError(err)
		}
		return h.WriteJSON(account, h.WithStatus(http.StatusCreated))
	}
}

func getAccountHandler(svc ledger.Service) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		params := struct {
			AccountID string `validate:"required"`
		}{}
		if err := h.BindParams().
			PathParam("accountID").String(&params.AccountID).
			Validate(&params); err != nil {
			return err
		}
		account, err := svc.GetAccount(req.Context(), params.AccountID)
		if err != nil {
			return asHTTPError(err)
		}
		return h.WriteJSON(account)
	}
}

func depositHandler(svc ledger.Service) router.ToolkitHandlerFunc {
	return movementHandler(svc.Deposit)
}

func withdrawHandler(svc ledger.Service) router.ToolkitHandlerFunc {
	return movementHandler(svc.Withdraw)
}

func movementHandler(apply func(ctx context.Context, cmd *ledger.MoneyMovement) (*ledger.Account, error)) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		params := struct {
			AccountID string `validate:"required"`
		}{}
		if err := h.BindParams().
			PathParam("accountID").String(&params.AccountID).
			Validate(&params); err != nil {
			return err
		}
		key, err := idempotencyKey(req)
		if err != nil {
			return err
		}
		payload := movementPayload{}
		if err := h.BindPayload(&payload); err != nil {
			return err
		}
		account, err := apply(req.Context(), &ledger.MoneyMovement{
			AccountID:      params.AccountID,
			Amount:         payload.Amount,
			Memo:           payload.Memo,
			IdempotencyKey: key,
		})
		if err != nil {
			return asHTTPError(err)
		}
		return h.WriteJSON(account)
	}
}

func transferHandler(svc ledger.Service) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		key, err := idempotencyKey(req)
		if err != nil {
			return err
		}
		payload := transferPayload{}
		if err := h.BindPayload(&payload); err != nil {
			return err
		}
		result, err := svc.Transfer(req.Context(), &ledger.TransferRequest{
			SourceAccountID: payload.SourceAccountID,
			DestAccountID:   payload.DestAccountID,
			Amount:          payload.Amount,
			Memo:            payload.Memo,
			IdempotencyKey:  key,
		})
		if err != nil {
			return asHTTPError(err)
		}
		return h.WriteJSON(result)
	}
}

func statementHandler(reader statement.Reader) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		params := struct {
			AccountID string `validate:"required"`
			Limit     int
			Cursor    string
		}{}
		if err := h.BindParams().
			PathParam("accountID").String(&params.AccountID).
			QueryParam("limit").Default("0").Int(&params.Limit).
			QueryParam("cursor").String(&params.Cursor).
			Validate(&params); err != nil {
			return err
		}
		page, err := reader.GetStatement(req.Context(), statement.Query{
			AccountID: params.AccountID,
			Limit:     params.Limit,
			Cursor:    params.Cursor,
		})
		if err != nil {
			return asHTTPError(err)
		}
		return h.WriteJSON(page)
	}
}
