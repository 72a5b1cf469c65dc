package enrich

import "fmt"

const analysisPromptFormat = `Consider yourself as a stock market analyst. Analyze the following news article and using your expertise of stock market provide the following information:
1. Sentiment (POSITIVE, NEGATIVE, or NEUTRAL)
2. Stock recommendation (BUY, SELL, or HOLD)
3. Stocks in discussion, in case of multiple stocks provide comma separated

%s

Respond in the following JSON format:
{
    "sentiment": "POSITIVE/NEGATIVE/NEUTRAL",
    "recommendation": "BUY/SELL/HOLD",
    "stocks": [
        {"name": "Stock Name 1", "code": "STOCK_CODE_1"},
        {"name": "Stock Name 2", "code": "STOCK_CODE_2"}
    ]
}
`

func buildAnalysisPrompt(text string) string {
	return fmt.Sprintf(analysisPromptFormat, text)
}
