// Package kis is a minimal Korea Investment & Securities open-API client:
// cash order submit/inquire/cancel plus the balance inquiry that backs the
// live price oracle. Only the calls the session engine needs are covered.
package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/daytrader/market"
)

const (
	// RealURL is the production trading endpoint.
	RealURL = "https://openapi.koreainvestment.com:9443"
	// PaperURL is the mock-trading endpoint.
	PaperURL = "https://openapivts.koreainvestment.com:29443"
)

// Transaction ids differ between the real and mock environments.
type trIDs struct {
	buy     string
	sell    string
	cancel  string
	filled  string
	balance string
}

var (
	realTR  = trIDs{buy: "TTTC0802U", sell: "TTTC0801U", cancel: "TTTC0803U", filled: "TTTC8001R", balance: "TTTC8434R"}
	paperTR = trIDs{buy: "VTTC0802U", sell: "VTTC0801U", cancel: "VTTC0803U", filled: "VTTC8001R", balance: "VTTC8434R"}
)

// Config holds credentials and account selection for the client.
type Config struct {
	AppKey    string
	AppSecret string
	Account   string // "CANO-PRDT", e.g. "12345678-01"
	Paper     bool
}

// Client is a KIS open-API client. It refreshes its access token lazily and
// is safe for the engine's single-threaded use.
type Client struct {
	baseURL    string
	cfg        Config
	tr         trIDs
	httpClient *http.Client

	token    string
	tokenExp time.Time
}

// NewClient creates a client against the real or mock environment.
func NewClient(cfg Config) *Client {
	baseURL := RealURL
	tr := realTR
	if cfg.Paper {
		baseURL = PaperURL
		tr = paperTR
	}

	return &Client{
		baseURL: baseURL,
		cfg:     cfg,
		tr:      tr,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) account() (cano, prdt string, err error) {
	parts := strings.SplitN(c.cfg.Account, "-", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("kis: account %q must be CANO-PRDT", c.cfg.Account)
	}
	return parts[0], parts[1], nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken issues an access token when none is held or the current one
// is close to expiry.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" && time.Until(c.tokenExp) > time.Minute {
		return nil
	}

	body, _ := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.cfg.AppKey,
		"appsecret":  c.cfg.AppSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth2/tokenP", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kis: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kis: token request failed: %s", resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("kis: decode token: %w", err)
	}

	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return nil
}

// do performs one authenticated API call and decodes the JSON response
// into out.
func (c *Client) do(ctx context.Context, method, path, trID string, query url.Values, body any, out any) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kis: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kis: %s %s: %s", method, path, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type orderResponse struct {
	RtCd   string `json:"rt_cd"`
	MsgCd  string `json:"msg_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		OrgNo string `json:"KRX_FWDG_ORD_ORGNO"`
		OdNo  string `json:"ODNO"`
	} `json:"output"`
}

// SubmitOrder places a cash limit order and returns its id. The id encodes
// the forwarding org number and order number the cancel call needs.
func (c *Client) SubmitOrder(ctx context.Context, o *market.Order) (string, error) {
	cano, prdt, err := c.account()
	if err != nil {
		return "", err
	}

	trID := c.tr.buy
	if o.Side == market.Sell {
		trID = c.tr.sell
	}

	body := map[string]string{
		"CANO":         cano,
		"ACNT_PRDT_CD": prdt,
		"PDNO":         o.Code,
		"ORD_DVSN":     "00", // limit order
		"ORD_QTY":      strconv.Itoa(o.Quantity),
		"ORD_UNPR":     strconv.FormatFloat(o.Price, 'f', 0, 64),
	}

	var resp orderResponse
	err = c.do(ctx, http.MethodPost, "/uapi/domestic-stock/v1/trading/order-cash", trID, nil, body, &resp)
	if err != nil {
		return "", err
	}
	if resp.RtCd != "0" {
		return "", fmt.Errorf("kis: order rejected: %s %s", resp.MsgCd, resp.Msg1)
	}

	return resp.Output.OrgNo + ":" + resp.Output.OdNo, nil
}

func splitOrderID(oid string) (orgNo, odNo string, err error) {
	parts := strings.SplitN(oid, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("kis: malformed order id %q", oid)
	}
	return parts[0], parts[1], nil
}

type ccldResponse struct {
	RtCd    string `json:"rt_cd"`
	MsgCd   string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output1 []struct {
		OdNo       string `json:"odno"`
		OrdQty     string `json:"ord_qty"`
		TotCcldQty string `json:"tot_ccld_qty"`
	} `json:"output1"`
}

// OrderFilled reports whether the order's executed quantity has reached its
// ordered quantity.
func (c *Client) OrderFilled(ctx context.Context, oid string) (bool, error) {
	cano, prdt, err := c.account()
	if err != nil {
		return false, err
	}
	_, odNo, err := splitOrderID(oid)
	if err != nil {
		return false, err
	}

	today := time.Now().Format("20060102")
	query := url.Values{}
	query.Set("CANO", cano)
	query.Set("ACNT_PRDT_CD", prdt)
	query.Set("INQR_STRT_DT", today)
	query.Set("INQR_END_DT", today)
	query.Set("SLL_BUY_DVSN_CD", "00")
	query.Set("ODNO", odNo)
	query.Set("CCLD_DVSN", "00")
	query.Set("INQR_DVSN", "00")
	query.Set("INQR_DVSN_1", "")
	query.Set("INQR_DVSN_3", "00")
	query.Set("PDNO", "")
	query.Set("ORD_GNO_BRNO", "")
	query.Set("CTX_AREA_FK100", "")
	query.Set("CTX_AREA_NK100", "")

	var resp ccldResponse
	err = c.do(ctx, http.MethodGet, "/uapi/domestic-stock/v1/trading/inquire-daily-ccld", c.tr.filled, query, nil, &resp)
	if err != nil {
		return false, err
	}
	if resp.RtCd != "0" {
		return false, fmt.Errorf("kis: fill inquiry failed: %s %s", resp.MsgCd, resp.Msg1)
	}

	for _, row := range resp.Output1 {
		if row.OdNo != odNo {
			continue
		}
		ordered, err1 := strconv.Atoi(strings.TrimSpace(row.OrdQty))
		executed, err2 := strconv.Atoi(strings.TrimSpace(row.TotCcldQty))
		if err1 != nil || err2 != nil {
			return false, fmt.Errorf("kis: bad quantities for order %s", odNo)
		}
		return ordered > 0 && executed >= ordered, nil
	}
	return false, fmt.Errorf("kis: order %s not found in today's executions", odNo)
}

// CancelOrder cancels the unfilled remainder of an order. A rejection for an
// order that turns out to be fully filled is treated as success, so the
// controller's unconditional cancel stays idempotent.
func (c *Client) CancelOrder(ctx context.Context, oid string) error {
	cano, prdt, err := c.account()
	if err != nil {
		return err
	}
	orgNo, odNo, err := splitOrderID(oid)
	if err != nil {
		return err
	}

	body := map[string]string{
		"CANO":               cano,
		"ACNT_PRDT_CD":       prdt,
		"KRX_FWDG_ORD_ORGNO": orgNo,
		"ORGN_ODNO":          odNo,
		"ORD_DVSN":           "00",
		"RVSE_CNCL_DVSN_CD":  "02", // cancel
		"ORD_QTY":            "0",
		"ORD_UNPR":           "0",
		"QTY_ALL_ORD_YN":     "Y",
	}

	var resp orderResponse
	err = c.do(ctx, http.MethodPost, "/uapi/domestic-stock/v1/trading/order-rvsecncl", c.tr.cancel, nil, body, &resp)
	if err != nil {
		return err
	}
	if resp.RtCd != "0" {
		if filled, ferr := c.OrderFilled(ctx, oid); ferr == nil && filled {
			return nil
		}
		return fmt.Errorf("kis: cancel rejected: %s %s", resp.MsgCd, resp.Msg1)
	}
	return nil
}

// Position is one holding from the balance inquiry.
type Position struct {
	Code     string
	AvgPrice float64
}

// Balance is the account snapshot the price oracle consumes.
type Balance struct {
	Time      time.Time
	Positions []Position
	NetAsset  float64
}

type balanceResponse struct {
	RtCd    string `json:"rt_cd"`
	MsgCd   string `json:"msg_cd"`
	Msg1    string `json:"msg1"`
	Output1 []struct {
		Pdno        string `json:"pdno"`
		PchsAvgPric string `json:"pchs_avg_pric"`
	} `json:"output1"`
	Output2 []struct {
		DncaTotAmt string `json:"dnca_tot_amt"`
		NassAmt    string `json:"nass_amt"`
	} `json:"output2"`
}

// GetBalance fetches current holdings and net asset value.
func (c *Client) GetBalance(ctx context.Context) (Balance, error) {
	cano, prdt, err := c.account()
	if err != nil {
		return Balance{}, err
	}

	query := url.Values{}
	query.Set("CANO", cano)
	query.Set("ACNT_PRDT_CD", prdt)
	query.Set("AFHR_FLPR_YN", "N")
	query.Set("OFL_YN", "")
	query.Set("INQR_DVSN", "02")
	query.Set("UNPR_DVSN", "01")
	query.Set("FUND_STTL_ICLD_YN", "N")
	query.Set("FNCG_AMT_AUTO_RDPT_YN", "N")
	query.Set("PRCS_DVSN", "00")
	query.Set("CTX_AREA_FK100", "")
	query.Set("CTX_AREA_NK100", "")

	var resp balanceResponse
	err = c.do(ctx, http.MethodGet, "/uapi/domestic-stock/v1/trading/inquire-balance", c.tr.balance, query, nil, &resp)
	if err != nil {
		return Balance{}, err
	}
	if resp.RtCd != "0" {
		return Balance{}, fmt.Errorf("kis: balance inquiry failed: %s %s", resp.MsgCd, resp.Msg1)
	}
	if len(resp.Output2) == 0 {
		return Balance{}, fmt.Errorf("kis: balance inquiry returned no account summary")
	}

	bal := Balance{Time: time.Now()}
	for _, row := range resp.Output1 {
		avg, err := strconv.ParseFloat(strings.TrimSpace(row.PchsAvgPric), 64)
		if err != nil {
			return Balance{}, fmt.Errorf("kis: bad avg price for %s: %w", row.Pdno, err)
		}
		bal.Positions = append(bal.Positions, Position{Code: row.Pdno, AvgPrice: avg})
	}

	nass, err := strconv.ParseFloat(strings.TrimSpace(resp.Output2[0].NassAmt), 64)
	if err != nil {
		return Balance{}, fmt.Errorf("kis: bad net asset amount: %w", err)
	}
	bal.NetAsset = nass

	return bal, nil
}
