package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinford/talent-tagger/internal/core/news"
)

// CompanyFile は "<会社名>.json" 形式の会社データファイル
type CompanyFile struct {
	Name string
	Data []byte
}

// ReadCompanyFiles はディレクトリ内の会社データファイルを名前順に読み込む
func ReadCompanyFiles(dir string) ([]CompanyFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list company files: %w", err)
	}

	files := make([]CompanyFile, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, CompanyFile{
			Name: strings.TrimSuffix(filepath.Base(path), ".json"),
			Data: raw,
		})
	}
	return files, nil
}

// NewsRecord はニュースファイルの1件
type NewsRecord struct {
	CompanyID int64
	Item      news.Item
	Link      string
}

type newsFileEntry struct {
	CompanyID    int64  `json:"company_id"`
	Title        string `json:"title"`
	OriginalLink string `json:"original_link"`
	NewsDate     string `json:"news_date"`
}

// ReadNewsFile は [{"company_id", "title", "original_link", "news_date": "YYYY-MM-DD"}] 形式のファイルを読み込む
// 日付を解釈できない記事は読み飛ばす
func ReadNewsFile(path string) ([]NewsRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read news file: %w", err)
	}

	var entries []newsFileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode news file: %w", err)
	}

	records := make([]NewsRecord, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse(time.DateOnly, e.NewsDate)
		if err != nil {
			continue
		}
		records = append(records, NewsRecord{
			CompanyID: e.CompanyID,
			Item:      news.Item{Title: e.Title, Date: date},
			Link:      e.OriginalLink,
		})
	}
	return records, nil
}
