package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jinford/talent-tagger/internal/core/news"
	"github.com/jinford/talent-tagger/internal/core/period"
)

// NewsRepository は company_news テーブルからニュースを読み出す
type NewsRepository struct {
	db DBTX
}

// NewNewsRepository は新しい NewsRepository を返す
func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{db: db}
}

var _ news.Store = (*NewsRepository)(nil)

// GetNews は期間内（月単位、両端含む）のニュースを掲載日順に返す
func (r *NewsRepository) GetNews(ctx context.Context, companyID int64, window period.Window) ([]news.Item, error) {
	from, until := WindowToDateRange(window)

	rows, err := r.db.Query(ctx, `
		SELECT title, news_date
		FROM company_news
		WHERE company_id = $1 AND news_date >= $2 AND news_date < $3
		ORDER BY news_date, id`, companyID, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var items []news.Item
	for rows.Next() {
		var (
			title string
			date  pgtype.Date
		)
		if err := rows.Scan(&title, &date); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, news.Item{Title: title, Date: date.Time})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news: %w", err)
	}
	return items, nil
}

// Insert はニュースを1件追加する
func (r *NewsRepository) Insert(ctx context.Context, companyID int64, item news.Item, link string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO company_news (company_id, title, original_link, news_date)
		VALUES ($1, $2, $3, $4)`, companyID, item.Title, link, DateToPgtype(item.Date))
	if err != nil {
		return fmt.Errorf("failed to insert news: %w", err)
	}
	return nil
}
