package roli

import (
	"net/http"
	"slices"
)

// Op names one endpoint; it keys status and application-code tables.
type Op string

const (
	OpAllItemDetails Op = "all_item_details"
	OpDealsActivity  Op = "deals_activity"
	OpRecentTradeAds Op = "recent_trade_ads"
	OpCreateTradeAd  Op = "create_trade_ad"
	OpPlayerSearch   Op = "player_search"
	OpPlayerProfile  Op = "player_profile"
	OpGamesList      Op = "games_list"
	OpGroupSearch    Op = "group_search"
	OpRecentSales    Op = "recent_sales"
	OpItemPage       Op = "item_page"
)

// Application codes reported in success=false bodies.
const (
	CodeInvalidParameters = 1
	CodeInvalidItemID     = 2
	CodeNotFound          = 3
	CodeRateLimited       = 4
	CodeCooldown          = 5
	CodeVerification      = 6
)

// CodeTable maps service codes to sentinel errors, per endpoint.
type CodeTable map[Op]map[int]error

// DefaultCodeTable returns a fresh copy of the built-in code vocabulary.
func DefaultCodeTable() CodeTable {
	common := func(extra map[int]error) map[int]error {
		m := map[int]error{
			CodeInvalidParameters: ErrInvalidParameters,
			CodeRateLimited:       ErrTooManyRequests,
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	return CodeTable{
		OpAllItemDetails: common(nil),
		OpDealsActivity:  common(nil),
		OpRecentTradeAds: common(nil),
		OpCreateTradeAd: common(map[int]error{
			CodeInvalidItemID: ErrInvalidItemID,
			CodeCooldown:      ErrCooldownNotExpired,
			CodeVerification:  ErrVerificationInvalidOrExpired,
		}),
		OpPlayerSearch:  common(nil),
		OpPlayerProfile: common(map[int]error{CodeNotFound: ErrNotFound}),
		OpGamesList:     common(nil),
		OpGroupSearch:   common(nil),
		OpRecentSales:   common(nil),
	}
}

func (t CodeTable) lookup(op Op, code int) error {
	if codes, ok := t[op]; ok {
		if err, ok := codes[code]; ok && err != nil {
			return err
		}
	}
	return ErrRequestUnsuccessful
}

// endpoint describes the fixed wire contract of one operation.
type endpoint struct {
	op       Op
	method   string
	path     string
	success  []int
	statuses map[int]error
}

func readStatuses(extra map[int]error) map[int]error {
	m := map[int]error{
		http.StatusTooManyRequests:     ErrTooManyRequests,
		http.StatusInternalServerError: ErrInternalServerError,
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

var (
	itemDetailsEndpoint = endpoint{
		op: OpAllItemDetails, method: http.MethodGet, path: "/itemapi/itemdetails",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	dealsActivityEndpoint = endpoint{
		op: OpDealsActivity, method: http.MethodGet, path: "/api/activity2",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	recentTradeAdsEndpoint = endpoint{
		op: OpRecentTradeAds, method: http.MethodGet, path: "/tradeadsapi/getrecentads",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	createTradeAdEndpoint = endpoint{
		op: OpCreateTradeAd, method: http.MethodPost, path: "/tradeapi/create",
		success: []int{http.StatusCreated, http.StatusOK},
		statuses: readStatuses(map[int]error{
			http.StatusBadRequest:          ErrCooldownNotExpired,
			http.StatusUnprocessableEntity: ErrVerificationInvalidOrExpired,
		}),
	}
	playerSearchEndpoint = endpoint{
		op: OpPlayerSearch, method: http.MethodGet, path: "/api/playersearch",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	playerProfileEndpoint = endpoint{
		op: OpPlayerProfile, method: http.MethodGet, path: "/playerapi/player/",
		success: []int{http.StatusOK},
		statuses: readStatuses(map[int]error{
			http.StatusNotFound:            ErrNotFound,
			http.StatusUnprocessableEntity: ErrNotFound,
		}),
	}
	gamesListEndpoint = endpoint{
		op: OpGamesList, method: http.MethodGet, path: "/gameapi/gamelist",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	groupSearchEndpoint = endpoint{
		op: OpGroupSearch, method: http.MethodGet, path: "/groupapi/search",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	recentSalesEndpoint = endpoint{
		op: OpRecentSales, method: http.MethodGet, path: "/api/activity",
		success: []int{http.StatusOK}, statuses: readStatuses(nil),
	}
	itemPageEndpoint = endpoint{
		op: OpItemPage, method: http.MethodGet, path: "/item/",
		success: []int{http.StatusOK},
		statuses: readStatuses(map[int]error{http.StatusNotFound: ErrNotFound}),
	}
)

func (ep endpoint) isSuccess(status int) bool {
	return slices.Contains(ep.success, status)
}
