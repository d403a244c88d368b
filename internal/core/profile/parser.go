package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/mo"

	"github.com/jinford/talent-tagger/internal/core/period"
	"github.com/jinford/talent-tagger/internal/shared/apperr"
)

// ErrEmptyDocument は入力が空であることを表す
var ErrEmptyDocument = errors.New("profile document is empty")

// Parser はプロフィールJSONを TalentRecord に変換する
type Parser struct {
	aliases  AliasTable
	validate *validator.Validate
	logger   *slog.Logger
}

// ParserOption は Parser の設定オプション
type ParserOption func(*Parser)

// WithParserLogger はロガーを設定する
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithAliasTable は会社名の別名テーブルを設定する
func WithAliasTable(table AliasTable) ParserOption {
	return func(p *Parser) {
		p.aliases = table
	}
}

// NewParser は新しいParserを作成する
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		aliases:  DefaultAliasTable(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type rawProfile struct {
	LastName     *string        `json:"lastName" validate:"required"`
	FirstName    *string        `json:"firstName" validate:"required"`
	Educations   []rawEducation `json:"educations"`
	Positions    []rawPosition  `json:"positions" validate:"required,dive"`
	Skills       []rawSkill     `json:"skills"`
	Summary      string         `json:"summary"`
	Headline     string         `json:"headline"`
	LinkedinURL  string         `json:"linkedinUrl"`
	IndustryName string         `json:"industryName"`
}

type rawEducation struct {
	SchoolName   string `json:"schoolName"`
	DegreeName   string `json:"degreeName"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Origin       struct {
		StartDateOn *rawYearMonth `json:"startDateOn"`
		EndDateOn   *rawYearMonth `json:"endDateOn"`
	} `json:"originStartEndDate"`
}

type rawPosition struct {
	CompanyName  string  `json:"companyName"`
	Title        *string `json:"title" validate:"required"`
	Description  string  `json:"description"`
	StartEndDate struct {
		Start *rawYearMonth `json:"start"`
		End   *rawYearMonth `json:"end"`
	} `json:"startEndDate"`
}

type rawYearMonth struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
}

func (r *rawYearMonth) empty() bool {
	return r == nil || (r.Year == nil && r.Month == nil)
}

func (r *rawYearMonth) yearMonth() mo.Option[period.YearMonth] {
	if r == nil || r.Year == nil || r.Month == nil {
		return mo.None[period.YearMonth]()
	}
	ym := period.YearMonth{Year: *r.Year, Month: *r.Month}
	if !ym.Valid() {
		return mo.None[period.YearMonth]()
	}
	return mo.Some(ym)
}

// rawSkill は文字列と {"name": ...} オブジェクトの両方を受け付ける
type rawSkill string

func (s *rawSkill) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = rawSkill(v)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = rawSkill(obj.Name)
	return nil
}

// Parse は生のプロフィールJSONを解析する
// 構文エラーや必須フィールド欠落は apperr.ErrInput として返し、部分的なレコードは返さない
func (p *Parser) Parse(raw []byte) (*TalentRecord, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperr.Input("profile.Parse", ErrEmptyDocument)
	}

	var doc rawProfile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperr.Input("profile.Parse", fmt.Errorf("failed to decode profile: %w", err))
	}
	if err := p.validate.Struct(&doc); err != nil {
		return nil, apperr.Input("profile.Parse", fmt.Errorf("invalid profile: %w", err))
	}

	record := &TalentRecord{
		Name:        *doc.LastName + *doc.FirstName,
		Education:   p.selectEducation(doc.Educations),
		Positions:   make([]Position, 0, len(doc.Positions)),
		Headline:    doc.Headline,
		Summary:     doc.Summary,
		LinkedInURL: doc.LinkedinURL,
		Industry:    doc.IndustryName,
	}

	for _, s := range doc.Skills {
		if name := strings.TrimSpace(string(s)); name != "" {
			record.Skills = append(record.Skills, name)
		}
	}

	for _, rp := range doc.Positions {
		record.Positions = append(record.Positions, p.toPosition(rp))
	}

	p.logger.Info("profile parsed",
		"positions", len(record.Positions),
		"skills", len(record.Skills),
		"hasEducation", record.Education.IsPresent())

	return record, nil
}

// selectEducation は終了年が最大の学歴を選ぶ（同値なら先頭優先）
func (p *Parser) selectEducation(entries []rawEducation) mo.Option[Education] {
	bestIdx := -1
	bestYear := 0
	for i, e := range entries {
		if e.Origin.EndDateOn == nil || e.Origin.EndDateOn.Year == nil {
			continue
		}
		if y := *e.Origin.EndDateOn.Year; bestIdx < 0 || y > bestYear {
			bestIdx, bestYear = i, y
		}
	}

	if bestIdx < 0 {
		p.logger.Warn("no education data found", "entries", len(entries))
		return mo.None[Education]()
	}

	e := entries[bestIdx]
	edu := Education{
		School:  e.SchoolName,
		Degree:  e.DegreeName,
		Field:   e.FieldOfStudy,
		EndYear: mo.Some(bestYear),
	}
	if s := e.Origin.StartDateOn; s != nil && s.Year != nil {
		edu.StartYear = mo.Some(*s.Year)
	}
	return mo.Some(edu)
}

func (p *Parser) toPosition(rp rawPosition) Position {
	pos := Position{
		Company:     p.aliases.Canonical(strings.TrimSpace(rp.CompanyName)),
		Title:       *rp.Title,
		Start:       rp.StartEndDate.Start.yearMonth(),
		Description: bulletize(rp.Description),
	}

	if end := rp.StartEndDate.End; end.empty() {
		pos.End = PresentEnd()
	} else {
		pos.End = EndDate{At: end.yearMonth()}
		if pos.End.Malformed() {
			p.logger.Warn("malformed position end date", "company", pos.Company)
		}
	}

	return pos
}

// bulletize は空行を除いた各行に "- " を付けて連結する
func bulletize(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	normalized := strings.ReplaceAll(description, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, "- "+line)
		}
	}
	return strings.Join(out, "\n")
}
