// Package registry holds the static stablecoin and platform reference data.
// Loaded once at process start, read-only afterwards: live prices and scores
// are computed per request and never written back.
package registry

// Backing model for a stablecoin.
const (
	BackingFiat   = "fiat-backed"
	BackingCrypto = "crypto-collateralized"
	BackingYield  = "yield-bearing"
	BackingHybrid = "hybrid"
)

// Tri-state (plus unknown) regulatory-compliance signal.
const (
	ComplianceYes     = "yes"
	ComplianceLikely  = "likely"
	ComplianceNo      = "no"
	ComplianceUnknown = "unknown"
)

// Platform types.
const (
	TypeCeFi = "cefi"
	TypeDeFi = "defi"
)

// Proof-of-reserves completeness for CeFi platforms.
const (
	PoRFull    = "full"
	PoRPartial = "partial"
	PoRNone    = "none"
)

type Stablecoin struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	Issuer         string `json:"issuer"`
	Jurisdiction   string `json:"jurisdiction"`
	Auditor        string `json:"auditor"`
	Backing        string `json:"backing"`
	Compliance     string `json:"compliance"`
	DepegIncidents int    `json:"depeg_incidents"`
}

type Platform struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`

	// CeFi attributes.
	KYC                bool   `json:"kyc,omitempty"`
	ProofOfReserves    string `json:"proof_of_reserves,omitempty"`
	IndependentAudit   bool   `json:"independent_audit,omitempty"`
	LicenseCount       int    `json:"license_count,omitempty"`
	SecurityAudit      bool   `json:"security_audit,omitempty"`
	EnforcementActions int    `json:"enforcement_actions,omitempty"`

	// DeFi attributes.
	OnChainTransparency bool `json:"onchain_transparency,omitempty"`
	AuditCount          int  `json:"audit_count,omitempty"`
	FormalVerification  bool `json:"formal_verification,omitempty"`
	AlgorithmicRisk     bool `json:"algorithmic_risk,omitempty"`
	DepegIncidents      int  `json:"depeg_incidents,omitempty"`
}

// Stablecoins returns the seed registry. Callers must treat the result as
// read-only reference data.
func Stablecoins() []Stablecoin {
	return stablecoins
}

// StablecoinBySymbol looks up a registry entry by its unique symbol.
func StablecoinBySymbol(symbol string) (Stablecoin, bool) {
	for _, sc := range stablecoins {
		if sc.Symbol == symbol {
			return sc, true
		}
	}
	return Stablecoin{}, false
}

// Platforms returns the seed platform registry.
func Platforms() []Platform {
	return platforms
}

var stablecoins = []Stablecoin{
	{Symbol: "USDT", Name: "Tether", Issuer: "Tether Ltd", Jurisdiction: "BVI / El Salvador", Auditor: "BDO", Backing: BackingFiat, Compliance: ComplianceNo, DepegIncidents: 1},
	{Symbol: "USDC", Name: "USD Coin", Issuer: "Circle", Jurisdiction: "USA (state MTLs)", Auditor: "Deloitte", Backing: BackingFiat, Compliance: ComplianceYes, DepegIncidents: 1},
	{Symbol: "DAI", Name: "Dai", Issuer: "MakerDAO", Jurisdiction: "Decentralized", Auditor: "None", Backing: BackingCrypto, Compliance: ComplianceNo, DepegIncidents: 1},
	{Symbol: "PYUSD", Name: "PayPal USD", Issuer: "Paxos", Jurisdiction: "NYDFS", Auditor: "Withum", Backing: BackingFiat, Compliance: ComplianceYes},
	{Symbol: "USDP", Name: "Pax Dollar", Issuer: "Paxos", Jurisdiction: "NYDFS", Auditor: "Withum", Backing: BackingFiat, Compliance: ComplianceYes},
	{Symbol: "GUSD", Name: "Gemini Dollar", Issuer: "Gemini", Jurisdiction: "NYDFS", Auditor: "BPM", Backing: BackingFiat, Compliance: ComplianceYes},
	{Symbol: "TUSD", Name: "TrueUSD", Issuer: "Techteryx", Jurisdiction: "Offshore", Auditor: "Moore", Backing: BackingFiat, Compliance: ComplianceUnknown, DepegIncidents: 1},
	{Symbol: "FDUSD", Name: "First Digital USD", Issuer: "First Digital", Jurisdiction: "Hong Kong", Auditor: "Prescient", Backing: BackingFiat, Compliance: ComplianceLikely, DepegIncidents: 1},
	{Symbol: "FRAX", Name: "Frax", Issuer: "Frax Finance", Jurisdiction: "Decentralized", Auditor: "None", Backing: BackingHybrid, Compliance: ComplianceNo},
	{Symbol: "USDE", Name: "Ethena USDe", Issuer: "Ethena Labs", Jurisdiction: "Offshore", Auditor: "None", Backing: BackingYield, Compliance: ComplianceNo},
	{Symbol: "USDS", Name: "Sky Dollar", Issuer: "Sky", Jurisdiction: "Decentralized", Auditor: "None", Backing: BackingCrypto, Compliance: ComplianceNo},
	{Symbol: "USDG", Name: "Global Dollar", Issuer: "Paxos Digital", Jurisdiction: "MAS (Singapore)", Auditor: "Withum", Backing: BackingFiat, Compliance: ComplianceYes},
}

var platforms = []Platform{
	{Name: "Coinbase", Type: TypeCeFi, Region: "US", KYC: true, ProofOfReserves: PoRPartial, IndependentAudit: true, LicenseCount: 40, SecurityAudit: true, EnforcementActions: 1},
	{Name: "Kraken", Type: TypeCeFi, Region: "US", KYC: true, ProofOfReserves: PoRFull, IndependentAudit: false, LicenseCount: 10, SecurityAudit: true, EnforcementActions: 2},
	{Name: "Gemini", Type: TypeCeFi, Region: "US", KYC: true, ProofOfReserves: PoRPartial, IndependentAudit: true, LicenseCount: 8, SecurityAudit: true, EnforcementActions: 1},
	{Name: "Binance", Type: TypeCeFi, Region: "Global", KYC: true, ProofOfReserves: PoRPartial, IndependentAudit: false, LicenseCount: 18, SecurityAudit: true, EnforcementActions: 3},
	{Name: "Crypto.com", Type: TypeCeFi, Region: "Global", KYC: true, ProofOfReserves: PoRPartial, IndependentAudit: false, LicenseCount: 12, SecurityAudit: true},
	{Name: "Aave", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 4, FormalVerification: true},
	{Name: "Curve", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 3},
	{Name: "Compound", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 3, FormalVerification: true},
	{Name: "Sky (Maker)", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 2, DepegIncidents: 1},
	{Name: "Frax Finance", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 2, AlgorithmicRisk: true},
	{Name: "Ethena", Type: TypeDeFi, Region: "Global", OnChainTransparency: true, AuditCount: 1, AlgorithmicRisk: true},
}
