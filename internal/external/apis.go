package external

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultRandomUsers = 5
	MaxRandomUsers     = 50
)

type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	IBGE         string `json:"ibge"`
	DDD          string `json:"ddd"`
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge"`
	DDD         string `json:"ddd"`
	Erro        any    `json:"erro"`
}

// ViaCEP reports unknown codes as 200 with "erro" set to true or "true".
func (r viaCEPResponse) missing() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func NormalizeCEP(cep string) (string, error) {
	cep = strings.ReplaceAll(strings.TrimSpace(cep), "-", "")
	if len(cep) != 8 {
		return "", invalid("cep must have 8 digits")
	}
	for _, r := range cep {
		if r < '0' || r > '9' {
			return "", invalid("cep must have 8 digits")
		}
	}
	return cep, nil
}

func (c *Client) LookupCEP(ctx context.Context, cep string) (*Address, error) {
	cep, err := NormalizeCEP(cep)
	if err != nil {
		return nil, err
	}
	var body viaCEPResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/json/", c.cfg.CEPBaseURL, cep), &body); err != nil {
		return nil, err
	}
	if body.missing() {
		return nil, fmt.Errorf("%w: cep %s", ErrNotFound, cep)
	}
	return &Address{
		CEP:          body.CEP,
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
		IBGE:         body.IBGE,
		DDD:          body.DDD,
	}, nil
}

type ExchangeRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func currencyCode(code, name string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", invalid("%s must be a 3 letter currency code", name)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", invalid("%s must be a 3 letter currency code", name)
		}
	}
	return code, nil
}

func (c *Client) ExchangeRates(ctx context.Context, base string) (*ExchangeRates, error) {
	base, err := currencyCode(base, "baseCurrency")
	if err != nil {
		return nil, err
	}
	var body ExchangeRates
	if err := c.getJSON(ctx, fmt.Sprintf("%s/latest/%s", c.cfg.CurrencyBaseURL, base), &body); err != nil {
		return nil, err
	}
	if body.Base == "" {
		body.Base = base
	}
	return &body, nil
}

type Conversion struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	Amount          decimal.Decimal `json:"amount"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	Date            string          `json:"date"`
}

func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	if !amount.IsPositive() {
		return nil, invalid("amount must be > 0")
	}
	from, err := currencyCode(from, "from")
	if err != nil {
		return nil, err
	}
	to, err = currencyCode(to, "to")
	if err != nil {
		return nil, err
	}

	rates, err := c.ExchangeRates(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := rates.Rates[to]
	if !ok {
		return nil, fmt.Errorf("%w: no rate for %s", ErrNotFound, to)
	}
	r := decimal.NewFromFloat(rate)
	return &Conversion{
		From:            from,
		To:              to,
		Amount:          amount,
		Rate:            r,
		ConvertedAmount: amount.Mul(r).Round(2),
		Date:            rates.Date,
	}, nil
}

type RandomUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Country string `json:"country"`
	Picture string `json:"picture"`
}

type randomUserResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"location"`
		Picture struct {
			Large string `json:"large"`
		} `json:"picture"`
	} `json:"results"`
}

func (c *Client) RandomUsers(ctx context.Context, count int) ([]RandomUser, error) {
	if count < 1 || count > MaxRandomUsers {
		return nil, invalid("count must be between 1 and %d", MaxRandomUsers)
	}
	var body randomUserResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/?results=%d", c.cfg.RandomUserBaseURL, count), &body); err != nil {
		return nil, err
	}
	out := make([]RandomUser, 0, len(body.Results))
	for _, u := range body.Results {
		out = append(out, RandomUser{
			Name:    strings.TrimSpace(u.Name.First + " " + u.Name.Last),
			Email:   u.Email,
			Phone:   u.Phone,
			City:    u.Location.City,
			Country: u.Location.Country,
			Picture: u.Picture.Large,
		})
	}
	return out, nil
}

// Geolocation looks up ip, or the caller's public address when ip is empty.
func (c *Client) Geolocation(ctx context.Context, ip string) (map[string]any, error) {
	ip = strings.TrimSpace(ip)
	if ip != "" && net.ParseIP(ip) == nil {
		return nil, invalid("ip must be a valid IP address")
	}
	target := c.cfg.GeolocationBaseURL + "/"
	if ip != "" {
		target += url.PathEscape(ip)
	}
	body := map[string]any{}
	if err := c.getJSON(ctx, target, &body); err != nil {
		return nil, err
	}
	if status, _ := body["status"].(string); status == "fail" {
		msg, _ := body["message"].(string)
		return nil, fmt.Errorf("%w: geolocation %s", ErrNotFound, msg)
	}
	return body, nil
}

func (c *Client) BitcoinPrice(ctx context.Context) (map[string]any, error) {
	body := map[string]any{}
	u := c.cfg.CryptoBaseURL + "/simple/price?ids=bitcoin&vs_currencies=usd,eur,brl"
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	return body, nil
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Country struct {
	Name         string              `json:"name"`
	OfficialName string              `json:"official_name"`
	Capital      string              `json:"capital"`
	Region       string              `json:"region"`
	Subregion    string              `json:"subregion"`
	Population   int64               `json:"population"`
	Area         float64             `json:"area"`
	Flag         string              `json:"flag"`
	Currencies   map[string]Currency `json:"currencies"`
	Languages    map[string]string   `json:"languages"`
}

type restCountry struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Area       float64  `json:"area"`
	Flags      struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
	Currencies map[string]Currency `json:"currencies"`
	Languages  map[string]string   `json:"languages"`
}

func (c *Client) Country(ctx context.Context, name string) (*Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("country name is required")
	}
	var body []restCountry
	if err := c.getJSON(ctx, fmt.Sprintf("%s/name/%s", c.cfg.CountryBaseURL, url.PathEscape(name)), &body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: country %s", ErrNotFound, name)
	}

	rc := body[0]
	out := &Country{
		Name:         rc.Name.Common,
		OfficialName: rc.Name.Official,
		Region:       rc.Region,
		Subregion:    rc.Subregion,
		Population:   rc.Population,
		Area:         rc.Area,
		Flag:         rc.Flags.PNG,
		Currencies:   rc.Currencies,
		Languages:    rc.Languages,
	}
	if len(rc.Capital) > 0 {
		out.Capital = rc.Capital[0]
	}
	if out.Flag == "" {
		out.Flag = rc.Flags.SVG
	}
	return out, nil
}

// ParseCount parses an optional count, defaulting to DefaultRandomUsers.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRandomUsers, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("count must be an integer")
	}
	return n, nil
}
