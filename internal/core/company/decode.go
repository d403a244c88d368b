package company

import (
	"encoding/json"
	"fmt"

	"github.com/samber/mo"
)

type rawDocument struct {
	MAU          json.RawMessage `json:"mau"`
	Organization json.RawMessage `json:"organization"`
	Investment   json.RawMessage `json:"investment"`
	Finance      json.RawMessage `json:"finance"`
}

type rawMetric struct {
	ReferenceMonth string   `json:"referenceMonth"`
	Value          *float64 `json:"value"`
}

type rawInvestment struct {
	InvestAt         string   `json:"investAt"`
	InvestmentAmount *float64 `json:"investmentAmount"`
	Level            string   `json:"level"`
}

type rawFinance struct {
	Year      int     `json:"year"`
	NetProfit float64 `json:"netProfit"`
}

// DecodeSnapshot は保存されている会社データJSONを系列ごとに復号する
// 不正な系列はその系列のみ欠落扱いにし、他の系列は残す
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode company document: %w", err)
	}

	return Snapshot{
		MAU:          decodeMAU(doc.MAU),
		Organization: decodeOrganization(doc.Organization),
		Investment:   decodeInvestment(doc.Investment),
		Finance:      decodeFinance(doc.Finance),
	}, nil
}

// mau は {"list": [{"data": [...]}]} 形式
func decodeMAU(raw json.RawMessage) []MetricRecord {
	var v struct {
		List []struct {
			Data []rawMetric `json:"data"`
		} `json:"list"`
	}
	if !decodeSeries(raw, &v) || len(v.List) == 0 || v.List[0].Data == nil {
		return nil
	}
	return toMetrics(v.List[0].Data)
}

func decodeOrganization(raw json.RawMessage) []MetricRecord {
	var v struct {
		Data []rawMetric `json:"data"`
	}
	if !decodeSeries(raw, &v) || v.Data == nil {
		return nil
	}
	return toMetrics(v.Data)
}

func decodeInvestment(raw json.RawMessage) []InvestmentRecord {
	var v struct {
		Data []rawInvestment `json:"data"`
	}
	if !decodeSeries(raw, &v) || v.Data == nil {
		return nil
	}
	out := make([]InvestmentRecord, 0, len(v.Data))
	for _, d := range v.Data {
		out = append(out, InvestmentRecord{
			InvestAt: d.InvestAt,
			Amount:   optional(d.InvestmentAmount),
			Level:    d.Level,
		})
	}
	return out
}

func decodeFinance(raw json.RawMessage) []FinanceRecord {
	var v struct {
		Data []rawFinance `json:"data"`
	}
	if !decodeSeries(raw, &v) || v.Data == nil {
		return nil
	}
	out := make([]FinanceRecord, 0, len(v.Data))
	for _, d := range v.Data {
		out = append(out, FinanceRecord(d))
	}
	return out
}

func decodeSeries(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func toMetrics(data []rawMetric) []MetricRecord {
	out := make([]MetricRecord, 0, len(data))
	for _, d := range data {
		out = append(out, MetricRecord{ReferenceMonth: d.ReferenceMonth, Value: optional(d.Value)})
	}
	return out
}

func optional(v *float64) mo.Option[float64] {
	if v == nil {
		return mo.None[float64]()
	}
	return mo.Some(*v)
}
