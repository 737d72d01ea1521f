package edgar

// --- Company tickers + exchanges (www.sec.gov/files) ---

// tickerExchangeResponse is the company_tickers_exchange.json payload:
// a fields header plus rows of [cik, legal name, ticker, exchange].
type tickerExchangeResponse struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// --- Submissions (data.sec.gov/submissions) ---

// submissionsResponse is the response from the company submissions endpoint.
type submissionsResponse struct {
	CIK            string       `json:"cik"`
	EntityType     string       `json:"entityType"`
	SIC            string       `json:"sic"`
	SICDescription string       `json:"sicDescription"`
	Name           string       `json:"name"`
	Tickers        []string     `json:"tickers"`
	Exchanges      []string     `json:"exchanges"`
	Filings        filingsBlock `json:"filings"`
}

type filingsBlock struct {
	Recent filingSet `json:"recent"`
}

// filingSet holds the parallel arrays EDGAR uses for recent filings.
type filingSet struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
	Items           []string `json:"items"`
}

// CompanyMeta is the registry metadata attached to a company's submissions.
type CompanyMeta struct {
	CIK            string   `json:"cik"`
	Name           string   `json:"name"`
	SIC            string   `json:"sic"`
	SICDescription string   `json:"sic_description"`
	Tickers        []string `json:"tickers"`
}
