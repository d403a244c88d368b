package news

import (
	"maps"
	"math"
	"slices"
)

// tfidfScores はタイトル集合に対する各タイトルの平均TF-IDF重みを計算する
//
// 語の出現回数 × 平滑化IDF ln((1+N)/(1+df))+1 をタイトルごとにL2正規化し、
// 語彙全体（出現しない語は0）で平均した値をスコアとする
// 同じ語の集合を持つタイトルは語順によらず同じスコアになる
func tfidfScores(docs [][]string) []float64 {
	scores := make([]float64, len(docs))
	if len(docs) == 0 {
		return scores
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, tokens := range docs {
		counts[i] = make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[i][tok]++
		}
		for tok := range counts[i] {
			df[tok]++
		}
	}

	vocab := len(df)
	if vocab == 0 {
		return scores
	}

	n := float64(len(docs))
	idf := make(map[string]float64, vocab)
	for tok, d := range df {
		idf[tok] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// 浮動小数の加算順を固定するため語をソートして足し込む
	for i, tc := range counts {
		var sum, sumSq float64
		for _, tok := range slices.Sorted(maps.Keys(tc)) {
			w := float64(tc[tok]) * idf[tok]
			sum += w
			sumSq += w * w
		}
		if sumSq == 0 {
			continue
		}
		scores[i] = sum / math.Sqrt(sumSq) / float64(vocab)
	}
	return scores
}
