package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKIS struct {
	tokenCalls int
	expiresIn  int64
	priceCalls int
	rankItems  int
	failPrice  bool
}

func (f *fakeKIS) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["grant_type"] != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", f.tokenCalls),
			"expires_in":   f.expiresIn,
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/quotations/inquire-price", func(w http.ResponseWriter, r *http.Request) {
		f.priceCalls++
		if f.failPrice {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"output":{"hts_kor_isnm":"삼성전자","stck_prpr":"71000","prdy_ctrt":"1.25","prdy_vrss":"880","acml_vol":"12345678"}}`))
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/quotations/volume-rank", func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Ticker string `json:"mksc_shrn_iscd"`
			Name   string `json:"hts_kor_isnm"`
			Price  string `json:"stck_prpr"`
			Rate   string `json:"prdy_ctrt"`
			Volume string `json:"acml_vol"`
		}
		out := make([]entry, 0, f.rankItems)
		for i := 0; i < f.rankItems; i++ {
			out = append(out, entry{
				Ticker: fmt.Sprintf("%06d", i),
				Name:   fmt.Sprintf("종목%d", i),
				Price:  "1000",
				Rate:   "0.5",
				Volume: "100",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"output": out})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeKIS) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "app-key", "app-secret"), srv
}

func TestAuthenticateSetsExpiryFromExpiresIn(t *testing.T) {
	f := &fakeKIS{expiresIn: 3600}
	c, _ := newTestClient(t, f)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.authenticate(context.Background()))
	assert.Equal(t, base.Add(time.Hour), c.tokenExpiry)
}

func TestTokenRenewedLazilyAfterExpiry(t *testing.T) {
	f := &fakeKIS{expiresIn: 3600}
	c, _ := newTestClient(t, f)

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NotNil(t, c.GetStockPrice(context.Background(), "005930"))
	assert.Equal(t, 1, f.tokenCalls)

	// Still valid: no second exchange.
	now = now.Add(30 * time.Minute)
	require.NotNil(t, c.GetStockPrice(context.Background(), "005930"))
	assert.Equal(t, 1, f.tokenCalls)

	// Past expiry: exactly one renewal before the data call.
	now = now.Add(31 * time.Minute)
	require.NotNil(t, c.GetStockPrice(context.Background(), "005930"))
	assert.Equal(t, 2, f.tokenCalls)
}

func TestGetStockPriceParsesStringFields(t *testing.T) {
	f := &fakeKIS{expiresIn: 3600}
	c, _ := newTestClient(t, f)

	quote := c.GetStockPrice(context.Background(), "005930")
	require.NotNil(t, quote)
	assert.Equal(t, "삼성전자", quote.Name)
	assert.Equal(t, 71000.0, quote.CurrentPrice)
	assert.Equal(t, 1.25, quote.ChangeRate)
	assert.Equal(t, 880.0, quote.ChangeAmount)
	assert.Equal(t, int64(12345678), quote.Volume)
}

func TestGetStockPriceNilOnFailure(t *testing.T) {
	f := &fakeKIS{expiresIn: 3600, failPrice: true}
	c, _ := newTestClient(t, f)

	assert.Nil(t, c.GetStockPrice(context.Background(), "005930"))
}

func TestGetTrendingStocksTruncatesAndRanks(t *testing.T) {
	f := &fakeKIS{expiresIn: 3600, rankItems: 30}
	c, _ := newTestClient(t, f)

	stocks := c.GetTrendingStocks(context.Background(), 10)
	require.Len(t, stocks, 10)
	for i, s := range stocks {
		assert.Equal(t, i+1, s.Rank)
	}
}

func TestGetTrendingStocksEmptyOnFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "app-key", "app-secret")
	assert.Empty(t, c.GetTrendingStocks(context.Background(), 10))
}
