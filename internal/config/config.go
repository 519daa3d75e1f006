package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"donations.db"`

	Stripe     Stripe     `envPrefix:"STRIPE_"`
	Paypal     Paypal     `envPrefix:"PAYPAL_"`
	Braintree  Braintree  `envPrefix:"BRAINTREE_"`
	PakGateway PakGateway `envPrefix:"PAKGATEWAY_"`
	SMTP       SMTP       `envPrefix:"SMTP_"`
	Admin      Admin      `envPrefix:"ADMIN_"`
	Fees       Fees       `envPrefix:"FEE_"`
	Exchange   Exchange   `envPrefix:"EXCHANGE_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	WebhookID    string `env:"WEBHOOK_ID"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

// PakGateway configures the local Pakistani acquirer (Safepay-style REST API
// with HMAC-signed notifications).
type PakGateway struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://sandbox.api.getsafepay.com"`
	APIKey     string `env:"API_KEY"`
	SharedKey  string `env:"SHARED_KEY"`
}

type SMTP struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"receipts@example.org"`
}

type Admin struct {
	JWTSecret string `env:"JWT_SECRET"`
	Email     string `env:"EMAIL"`
	Password  string `env:"PASSWORD"`
}

// Fees is the display-fee rate table. Rates are configuration, not logic:
// confirm actual values with each provider before production use.
type Fees struct {
	HomeCurrency string `env:"HOME_CURRENCY" envDefault:"AUD"`

	StripeDomesticPercent      string `env:"STRIPE_DOMESTIC_PERCENT" envDefault:"1.75"`
	StripeDomesticFixed        string `env:"STRIPE_DOMESTIC_FIXED" envDefault:"0.30"`
	StripeInternationalPercent string `env:"STRIPE_INTERNATIONAL_PERCENT" envDefault:"2.90"`
	StripeInternationalFixed   string `env:"STRIPE_INTERNATIONAL_FIXED" envDefault:"0.30"`

	PaypalDomesticPercent      string `env:"PAYPAL_DOMESTIC_PERCENT" envDefault:"2.60"`
	PaypalDomesticFixed        string `env:"PAYPAL_DOMESTIC_FIXED" envDefault:"0.30"`
	PaypalInternationalPercent string `env:"PAYPAL_INTERNATIONAL_PERCENT" envDefault:"3.60"`
	PaypalInternationalFixed   string `env:"PAYPAL_INTERNATIONAL_FIXED" envDefault:"0.30"`

	WalletDomesticPercent      string `env:"WALLET_DOMESTIC_PERCENT" envDefault:"1.75"`
	WalletDomesticFixed        string `env:"WALLET_DOMESTIC_FIXED" envDefault:"0.30"`
	WalletInternationalPercent string `env:"WALLET_INTERNATIONAL_PERCENT" envDefault:"2.90"`
	WalletInternationalFixed   string `env:"WALLET_INTERNATIONAL_FIXED" envDefault:"0.30"`

	PakGatewayPercent string `env:"PAKGATEWAY_PERCENT" envDefault:"2.90"`
	PakGatewayFixed   string `env:"PAKGATEWAY_FIXED" envDefault:"0.00"`
}

type Exchange struct {
	RatesURL     string `env:"RATES_URL" envDefault:"https://open.er-api.com/v6/latest"`
	BaseCurrency string `env:"BASE_CURRENCY" envDefault:"AUD"`
	CacheTTL     string `env:"CACHE_TTL" envDefault:"1h"`
}
