package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/gorilla/mux"
)

const maxBodySize = 1 << 20

func getCaller(r *http.Request) (entity.Address, error) {
	caller, err := entity.ParseAddress(r.Header.Get(CallerHeader))
	if err != nil || caller.IsZero() {
		return "", ErrMissingCaller
	}

	return caller, nil
}

func getAddress(r *http.Request, name string) (entity.Address, error) {
	return entity.ParseAddress(mux.Vars(r)[name])
}

func getTokenId(r *http.Request) (uint64, error) {
	tokenId, err := strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: token id", ErrBadRequest)
	}

	return tokenId, nil
}

func getSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		return 0
	}

	return size
}

func decode(w http.ResponseWriter, r *http.Request, body interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(body); err != nil {
		if statusOf(err) == http.StatusBadRequest {
			return err
		}
		return fmt.Errorf("%w: %s", ErrBadRequest, err.Error())
	}

	return nil
}
