package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

const (
	trIDInquirePrice = "FHKST01010100"
	trIDVolumeRank   = "FHPST01710000"
)

// Client는 한국투자증권 Open API 스타일의 시세 게이트웨이입니다.
// client-credentials 토큰을 만료 시각 기준으로 지연 갱신하며, 데이터
// 조회 실패는 내부에서 로깅하고 nil/빈 값으로 수렴시킵니다.
type Client struct {
	BaseURL    string
	AppKey     string
	AppSecret  string
	HTTPClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

func NewClient(baseURL, appKey, appSecret string) *Client {
	return &Client{
		BaseURL:    baseURL,
		AppKey:     appKey,
		AppSecret:  appSecret,
		HTTPClient: &http.Client{},
		now:        time.Now,
	}
}

// Ensure Client implements MarketData interface
var _ ports.MarketData = (*Client)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// authenticate performs the OAuth2 client-credentials exchange and
// records expiry as now + expires_in.
func (c *Client) authenticate(ctx context.Context) error {
	reqBody, _ := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.AppKey,
		"appsecret":  c.AppSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/oauth2/tokenP", bytes.NewReader(reqBody))
	if err != nil {
		return domain.NewAuthError("oauth", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("market data token exchange failed")
		return domain.NewAuthError("oauth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("token exchange status %d", resp.StatusCode)
		log.Error().Err(err).Msg("market data token exchange failed")
		return domain.NewAuthError("oauth", err)
	}

	var res tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.NewAuthError("oauth", err)
	}

	c.mu.Lock()
	c.accessToken = res.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(res.ExpiresIn) * time.Second)
	c.mu.Unlock()

	log.Info().Time("expiry", c.tokenExpiry).Msg("market data token issued")
	return nil
}

// ensureAuthenticated renews the token lazily: only when missing or
// already past its expiry, checked before every data call.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	c.mu.Lock()
	valid := c.accessToken != "" && c.now().Before(c.tokenExpiry)
	c.mu.Unlock()

	if valid {
		return nil
	}
	return c.authenticate(ctx)
}

func (c *Client) dataRequest(ctx context.Context, path, trID string, params url.Values) ([]byte, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.AppKey)
	req.Header.Set("appsecret", c.AppSecret)
	req.Header.Set("tr_id", trID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data request %s status %d", path, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type priceOutput struct {
	Output struct {
		Name         string `json:"hts_kor_isnm"`
		CurrentPrice string `json:"stck_prpr"`
		ChangeRate   string `json:"prdy_ctrt"`
		ChangeAmount string `json:"prdy_vrss"`
		Volume       string `json:"acml_vol"`
	} `json:"output"`
}

// GetStockPrice returns the current quote for a ticker, or nil on any
// failure.
func (c *Client) GetStockPrice(ctx context.Context, ticker string) *domain.StockQuote {
	params := url.Values{}
	params.Set("FID_COND_MRKT_DIV_CODE", "J")
	params.Set("FID_INPUT_ISCD", ticker)

	data, err := c.dataRequest(ctx, "/uapi/domestic-stock/v1/quotations/inquire-price", trIDInquirePrice, params)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("stock price lookup failed")
		return nil
	}

	var res priceOutput
	if err := json.Unmarshal(data, &res); err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("stock price response malformed")
		return nil
	}

	return &domain.StockQuote{
		Ticker:       ticker,
		Name:         res.Output.Name,
		CurrentPrice: parseFloat(res.Output.CurrentPrice),
		ChangeRate:   parseFloat(res.Output.ChangeRate),
		ChangeAmount: parseFloat(res.Output.ChangeAmount),
		Volume:       parseInt(res.Output.Volume),
	}
}

type volumeRankOutput struct {
	Output []struct {
		Ticker       string `json:"mksc_shrn_iscd"`
		Name         string `json:"hts_kor_isnm"`
		CurrentPrice string `json:"stck_prpr"`
		ChangeRate   string `json:"prdy_ctrt"`
		Volume       string `json:"acml_vol"`
	} `json:"output"`
}

// GetTrendingStocks returns the top entries of the volume ranking,
// truncated to count with 1-based ranks assigned in list order. On any
// failure it logs and returns an empty list.
func (c *Client) GetTrendingStocks(ctx context.Context, count int) []domain.TrendingStock {
	if count <= 0 {
		count = 10
	}

	params := url.Values{}
	params.Set("FID_COND_MRKT_DIV_CODE", "J")
	params.Set("FID_COND_SCR_DIV_CODE", "20171")
	params.Set("FID_INPUT_ISCD", "0000")
	params.Set("FID_DIV_CLS_CODE", "0")
	params.Set("FID_BLNG_CLS_CODE", "0")
	params.Set("FID_TRGT_CLS_CODE", "111111111")
	params.Set("FID_TRGT_EXLS_CLS_CODE", "000000")
	params.Set("FID_INPUT_PRICE_1", "")
	params.Set("FID_INPUT_PRICE_2", "")
	params.Set("FID_VOL_CNT", "")
	params.Set("FID_INPUT_DATE_1", "")

	data, err := c.dataRequest(ctx, "/uapi/domestic-stock/v1/quotations/volume-rank", trIDVolumeRank, params)
	if err != nil {
		log.Error().Err(err).Msg("volume ranking lookup failed")
		return []domain.TrendingStock{}
	}

	var res volumeRankOutput
	if err := json.Unmarshal(data, &res); err != nil {
		log.Error().Err(err).Msg("volume ranking response malformed")
		return []domain.TrendingStock{}
	}

	if len(res.Output) > count {
		res.Output = res.Output[:count]
	}

	stocks := make([]domain.TrendingStock, 0, len(res.Output))
	for i, o := range res.Output {
		stocks = append(stocks, domain.TrendingStock{
			Rank:         i + 1,
			Ticker:       o.Ticker,
			Name:         o.Name,
			CurrentPrice: parseFloat(o.CurrentPrice),
			ChangeRate:   parseFloat(o.ChangeRate),
			Volume:       parseInt(o.Volume),
		})
	}
	return stocks
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
