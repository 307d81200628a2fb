package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cep/01001000/json/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cep":"01001-000","logradouro":"Praca da Se","complemento":"lado impar","bairro":"Se","localidade":"Sao Paulo","uf":"SP","ibge":"3550308","ddd":"11"}`))
	})
	mux.HandleFunc("/cep/99999999/json/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"erro":"true"}`))
	})
	mux.HandleFunc("/fx/latest/USD", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","date":"2026-03-10","rates":{"USD":1,"BRL":5.25,"EUR":0.92}}`))
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("results"))
		_, _ = w.Write([]byte(`{"results":[
			{"name":{"first":"Ana","last":"Souza"},"email":"ana@example.com","phone":"1","location":{"city":"Recife","country":"Brazil"},"picture":{"large":"https://img/1.jpg"}},
			{"name":{"first":"Luis","last":"Garcia"},"email":"luis@example.com","phone":"2","location":{"city":"Madrid","country":"Spain"},"picture":{"large":"https://img/2.jpg"}}
		]}`))
	})
	mux.HandleFunc("/geo/8.8.8.8", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","country":"United States","query":"8.8.8.8"}`))
	})
	mux.HandleFunc("/geo/10.0.0.1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
	})
	mux.HandleFunc("/crypto/simple/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":65000,"eur":60000,"brl":340000}}`))
	})
	mux.HandleFunc("/countries/name/brazil", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":{"common":"Brazil","official":"Federative Republic of Brazil"},"capital":["Brasilia"],"region":"Americas","subregion":"South America","population":212559409,"area":8515767,"flags":{"png":"https://flagcdn.com/w320/br.png"},"currencies":{"BRL":{"name":"Brazilian real","symbol":"R$"}},"languages":{"por":"Portuguese"}}]`))
	})
	mux.HandleFunc("/countries/name/atlantis", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status":404}`, http.StatusNotFound)
	})
	mux.HandleFunc("/broken/latest/EUR", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		CEPBaseURL:         srv.URL + "/cep",
		CurrencyBaseURL:    srv.URL + "/fx/",
		RandomUserBaseURL:  srv.URL + "/users",
		GeolocationBaseURL: srv.URL + "/geo",
		CryptoBaseURL:      srv.URL + "/crypto",
		CountryBaseURL:     srv.URL + "/countries",
		Timeout:            2 * time.Second,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{CEPBaseURL: " https://cep.local/ "})
	assert.Equal(t, "https://cep.local", c.cfg.CEPBaseURL)
	assert.Equal(t, DefaultConfig().CountryBaseURL, c.cfg.CountryBaseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestLookupCEP(t *testing.T) {
	c := newUpstream(t)
	ctx := context.Background()

	addr, err := c.LookupCEP(ctx, "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "Praca da Se", addr.Street)
	assert.Equal(t, "Sao Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)

	_, err = c.LookupCEP(ctx, "99999999")
	require.ErrorIs(t, err, ErrNotFound)

	for _, bad := range []string{"123", "abcdefgh", "0100100"} {
		_, err = c.LookupCEP(ctx, bad)
		require.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestExchangeAndConvert(t *testing.T) {
	c := newUpstream(t)
	ctx := context.Background()

	rates, err := c.ExchangeRates(ctx, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", rates.Base)
	assert.InDelta(t, 5.25, rates.Rates["BRL"], 1e-9)

	conv, err := c.Convert(ctx, decimal.RequireFromString("10"), "USD", "brl")
	require.NoError(t, err)
	assert.Equal(t, "BRL", conv.To)
	assert.True(t, decimal.RequireFromString("52.5").Equal(conv.ConvertedAmount), conv.ConvertedAmount.String())
	assert.Equal(t, "2026-03-10", conv.Date)

	_, err = c.Convert(ctx, decimal.RequireFromString("10"), "USD", "XYZ")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Convert(ctx, decimal.Zero, "USD", "BRL")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.ExchangeRates(ctx, "US")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpstreamFailures(t *testing.T) {
	c := newUpstream(t)
	ctx := context.Background()

	// unknown currency path is a 404 from the fake
	_, err := c.ExchangeRates(ctx, "GBP")
	require.ErrorIs(t, err, ErrNotFound)

	broken := NewClient(Config{CurrencyBaseURL: strings.TrimSuffix(c.cfg.CEPBaseURL, "/cep") + "/broken"})
	_, err = broken.ExchangeRates(ctx, "EUR")
	require.ErrorIs(t, err, ErrUpstream)

	down := NewClient(Config{CurrencyBaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err = down.ExchangeRates(ctx, "EUR")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestRandomUsers(t *testing.T) {
	c := newUpstream(t)

	users, err := c.RandomUsers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana Souza", users[0].Name)
	assert.Equal(t, "Spain", users[1].Country)
	assert.Equal(t, "https://img/2.jpg", users[1].Picture)

	_, err = c.RandomUsers(context.Background(), 51)
	require.ErrorIs(t, err, ErrInvalidInput)

	n, err := ParseCount("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRandomUsers, n)
	_, err = ParseCount("many")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGeolocationAndBitcoin(t *testing.T) {
	c := newUpstream(t)
	ctx := context.Background()

	geo, err := c.Geolocation(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "United States", geo["country"])

	_, err = c.Geolocation(ctx, "10.0.0.1")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Geolocation(ctx, "not-an-ip")
	require.ErrorIs(t, err, ErrInvalidInput)

	price, err := c.BitcoinPrice(ctx)
	require.NoError(t, err)
	assert.Contains(t, price, "bitcoin")
}

func TestCountry(t *testing.T) {
	c := newUpstream(t)
	ctx := context.Background()

	country, err := c.Country(ctx, "brazil")
	require.NoError(t, err)
	assert.Equal(t, "Brazil", country.Name)
	assert.Equal(t, "Brasilia", country.Capital)
	assert.Equal(t, "https://flagcdn.com/w320/br.png", country.Flag)
	assert.Equal(t, "R$", country.Currencies["BRL"].Symbol)
	assert.EqualValues(t, 212559409, country.Population)

	_, err = c.Country(ctx, "atlantis")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Country(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
