package models

// Signal is the trading bias of an indicator.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// PatternType is the bias of a chart or candlestick pattern.
type PatternType string

const (
	PatternBullish PatternType = "bullish"
	PatternBearish PatternType = "bearish"
	PatternNeutral PatternType = "neutral"
)

// IndicatorResult is the common shape of every indicator reading.
// Strength is in [0,100]; insufficient history yields Strength 0.
type IndicatorResult struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Signal      Signal  `json:"signal"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

type MACDResult struct {
	IndicatorResult
	MACD       float64 `json:"macd"`
	SignalLine float64 `json:"signal_line"`
	Histogram  float64 `json:"histogram"`
	Crossover  bool    `json:"crossover"`
}

type StochasticResult struct {
	IndicatorResult
	K float64 `json:"k"`
	D float64 `json:"d"`
}

type ADXResult struct {
	IndicatorResult
	PlusDI   float64 `json:"plus_di"`
	MinusDI  float64 `json:"minus_di"`
	Trending bool    `json:"trending"`
}

type BollingerResult struct {
	IndicatorResult
	Upper     float64 `json:"upper"`
	Middle    float64 `json:"middle"`
	Lower     float64 `json:"lower"`
	Bandwidth float64 `json:"bandwidth"`
	PercentB  float64 `json:"percent_b"`
	Squeeze   bool    `json:"squeeze"`
}

type VolumeAnalysis struct {
	IndicatorResult
	OBV           float64 `json:"obv"`
	OBVSlope      float64 `json:"obv_slope"`
	VPT           float64 `json:"vpt"`
	AverageVolume float64 `json:"average_volume"`
	VolumeRatio   float64 `json:"volume_ratio"`
}

type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// Level is a clustered support/resistance price.
type Level struct {
	Price    float64   `json:"price"`
	Type     LevelType `json:"type"`
	Touches  int       `json:"touches"`
	Strength float64   `json:"strength"`
}

type FibonacciLevel struct {
	Ratio float64   `json:"ratio"`
	Price float64   `json:"price"`
	Type  LevelType `json:"type"`
}

// ChartPattern indices reference positions within the analysed series.
type ChartPattern struct {
	Name        string      `json:"name"`
	Type        PatternType `json:"type"`
	Confidence  float64     `json:"confidence"`
	StartIndex  int         `json:"start_index"`
	EndIndex    int         `json:"end_index"`
	TargetPrice *float64    `json:"target_price,omitempty"`
	Description string      `json:"description"`
}

// TechnicalScore blends four clamped sub-scores into a 0-100 composite.
type TechnicalScore struct {
	Overall    float64 `json:"overall"`
	Trend      float64 `json:"trend"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`
	Volume     float64 `json:"volume"`
	Signal     Signal  `json:"signal"`
}

// TechnicalReport bundles every technical reading for one series.
type TechnicalReport struct {
	Symbol       string           `json:"symbol,omitempty"`
	Bars         int              `json:"bars"`
	LastClose    float64          `json:"last_close"`
	RSI          IndicatorResult  `json:"rsi"`
	MACD         MACDResult       `json:"macd"`
	Stochastic   StochasticResult `json:"stochastic"`
	WilliamsR    IndicatorResult  `json:"williams_r"`
	ADX          ADXResult        `json:"adx"`
	Bollinger    BollingerResult  `json:"bollinger"`
	Volume       VolumeAnalysis   `json:"volume"`
	Levels       []Level          `json:"levels"`
	Fibonacci    []FibonacciLevel `json:"fibonacci"`
	Patterns     []ChartPattern   `json:"patterns"`
	Candlesticks []ChartPattern   `json:"candlesticks"`
	Score        TechnicalScore   `json:"score"`
}
