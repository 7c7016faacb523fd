package config

// DefaultWatchlist is the S&P 500 universe in scan priority order. Earlier
// symbols get first claim on free slots and cash.
var DefaultWatchlist = []string{
	"AAPL", "MSFT", "NVDA", "AVGO", "ADBE", "CRM", "ORCL", "ACN", "CSCO", "AMD",
	"IBM", "INTC", "QCOM", "TXN", "INTU", "NOW", "AMAT", "PANW", "PLTR", "MU",
	"ADI", "LRCX", "KLAC", "SNPS", "CDNS", "CRWD", "ADSK", "ROP", "FTNT", "MCHP",
	"NXPI", "FICO", "MRVL", "ON", "MPWR", "PAYX", "ANSS", "IT", "CTSH", "GLW",
	"APH", "TYL", "MSI", "KEYS", "CDW", "GDDY", "WDC", "STX", "ZBRA", "TRMB",
	"TDY", "TER", "FSLR", "HPQ", "NTAP", "AKAM", "JNPR", "ENPH", "FFIV", "GEN",
	"VRSN", "SWKS", "JBL", "JKHY", "QRVO", "SMCI", "DELL", "HPE", "UNH", "LLY",
	"JNJ", "ABBV", "MRK", "TMO", "ABT", "DHR", "PFE", "AMGN", "BMY", "VRTX",
	"GILD", "ELV", "CVS", "CI", "REGN", "MCK", "ZTS", "ISRG", "BSX", "SYK",
	"HCA", "MDT", "CNC", "BIIB", "HUM", "DXCM", "IQV", "A", "GEHC", "IDXX",
	"RMD", "EW", "ILMN", "BDX", "COR", "MTD", "WAT", "STE", "ALGN", "ZBH",
	"TECH", "COO", "RVTY", "HOLX", "DGX", "LH", "PODD", "MOH", "BAX", "VTRS",
	"INCY", "MRNA", "CAH", "WST", "UHS", "CTLT", "TFX", "CRL", "DVA", "SOLV",
	"HSIC", "BRK.B", "JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "SPGI",
	"BLK", "AXP", "C", "SCHW", "CB", "MMC", "PGR", "ICE", "CME", "AON",
	"USB", "PNC", "TFC", "COF", "BK", "AIG", "AFL", "MET", "PRU", "ALL",
	"FIS", "TRV", "AMP", "HIG", "MSCI", "DFS", "MTB", "FI", "FITB", "RJF",
	"STT", "TROW", "BRO", "SYF", "HBAN", "RF", "CFG", "WTW", "CINF", "NTRS",
	"KEY", "AIZ", "GL", "AJG", "IVZ", "EWBC", "BEN", "L", "JKHY", "MKTX",
	"CBOE", "CFR", "NDAQ", "WAL", "FDS", "ZION", "RNR", "ACGL", "PFG", "ALLY",
	"WRB", "AMZN", "TSLA", "HD", "MCD", "NKE", "LOW", "SBUX", "TJX", "BKNG",
	"CMG", "MAR", "GM", "ORLY", "HLT", "F", "AZO", "ABNB", "RCL", "DHI",
	"LEN", "YUM", "ROST", "GPC", "EBAY", "NVR", "DPZ", "PHM", "POOL", "LVS",
	"BBY", "CCL", "APTV", "GRMN", "EXPE", "NCLH", "MGM", "WYNN", "HAS", "TPR",
	"RL", "ULTA", "DRI", "BWA", "WHR", "MHK", "TSCO", "KMX", "CZR", "LULU",
	"DECK", "LKQ", "META", "GOOGL", "GOOG", "NFLX", "DIS", "T", "VZ", "CMCSA",
	"TMUS", "CHTR", "EA", "TTWO", "WBD", "MTCH", "FOXA", "FOX", "OMC", "IPG",
	"PARA", "NWSA", "NWS", "LYV", "PINS", "SNAP", "CAT", "RTX", "HON", "UNP",
	"BA", "GE", "UPS", "DE", "LMT", "ADP", "ETN", "WM", "GEV", "MMM",
	"TT", "PH", "ITW", "CSX", "EMR", "GD", "NOC", "NSC", "CARR", "FDX",
	"PCAR", "JCI", "CMI", "RSG", "PAYX", "URI", "TDG", "PWR", "HWM", "ODFL",
	"SNA", "FAST", "OTIS", "AME", "VRSK", "IR", "DAL", "LHX", "ROK", "EFX",
	"WAB", "AXON", "XYL", "CPRT", "HUBB", "DOV", "LDOS", "BR", "VLTO", "BLDR",
	"J", "UAL", "EXPD", "IEX", "ROL", "CHRW", "GNRC", "SWK", "NDSN", "MAS",
	"PNR", "TXT", "JBHT", "LUV", "AOS", "ALLE", "HII", "WMT", "PG", "COST",
	"KO", "PEP", "PM", "MO", "MDLZ", "CL", "TGT", "GIS", "KMB", "MNST",
	"KHC", "STZ", "SYY", "HSY", "K", "CHD", "CLX", "TSN", "MKC", "CAG",
	"HRL", "CPB", "SJM", "LW", "TAP", "DG", "DLTR", "KR", "KDP", "EL",
	"XOM", "CVX", "COP", "EOG", "SLB", "MPC", "PSX", "VLO", "OXY", "WMB",
	"KMI", "HES", "BKR", "FANG", "HAL", "DVN", "TRGP", "EQT", "MRO", "OKE",
	"CTRA", "APA", "FTI", "NEE", "SO", "DUK", "CEG", "SRE", "AEP", "VST",
	"D", "PCG", "PEG", "EXC", "XEL", "ED", "EIX", "WEC", "AWK", "ES",
	"DTE", "FE", "PPL", "ETR", "AEE", "CMS", "CNP", "NI", "LNT", "EVRG",
	"PNW", "ATO", "AMT", "PLD", "EQIX", "CCI", "PSA", "WELL", "DLR", "O",
	"CBRE", "SPG", "AVB", "EQR", "SBAC", "WY", "VICI", "VTR", "EXR", "INVH",
	"MAA", "ARE", "DOC", "KIM", "ESS", "UDR", "CPT", "HST", "REG", "BXP",
	"FRT", "PEAK", "LIN", "SHW", "APD", "FCX", "ECL", "NEM", "CTVA", "DOW",
	"VMC", "DD", "MLM", "NUE", "PPG", "ALB", "BALL", "AVY", "STLD", "IFF",
	"CE", "CF", "EMN", "MOS", "FMC", "LYB", "IP", "PKG", "AMCR", "SW",
}
