// Package export はカタログのCSV/JSON書き出しを担当します。
// ファイル名には取得時刻を入れて、過去の取得結果を上書きしないようにします。
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hamtaro777/CME-Monitor/internal/domain/market"
)

const timestampLayout = "20060102_150405"

// contractRecord はJSONダンプ用の1銘柄分のレコードです
type contractRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// WriteCatalog はカタログ全体と各カテゴリ別のCSV、およびJSONダンプを dir に書き出し、
// 作成したファイルのパスを返します。dir が無ければ作成します。
func WriteCatalog(dir string, snapshot *market.CatalogSnapshot) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成エラー: %w", err)
	}

	ts := time.Now().Format(timestampLayout)
	var written []string

	// 全銘柄CSV
	allCSV := filepath.Join(dir, fmt.Sprintf("all_cme_contracts_%s.csv", ts))
	if err := writeContractsCSV(allCSV, snapshot.Contracts); err != nil {
		return written, err
	}
	written = append(written, allCSV)

	// カテゴリ別CSV
	for category, contracts := range snapshot.ByCategory {
		path := filepath.Join(dir, fmt.Sprintf("cme_%s_%s.csv", category, ts))
		if err := writeContractsCSV(path, contracts); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	// JSONダンプ（全銘柄）
	jsonPath := filepath.Join(dir, fmt.Sprintf("all_cme_contracts_%s.json", ts))
	if err := writeContractsJSON(jsonPath, snapshot.Contracts); err != nil {
		return written, err
	}
	written = append(written, jsonPath)

	return written, nil
}

func writeContractsCSV(path string, contracts []market.Contract) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("CSVファイルの作成エラー: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "description", "category"}); err != nil {
		return err
	}
	for _, c := range contracts {
		if err := w.Write([]string{c.ID, c.Name, c.Description, c.Category}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeContractsJSON(path string, contracts []market.Contract) error {
	records := make([]contractRecord, 0, len(contracts))
	for _, c := range contracts {
		records = append(records, contractRecord{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON変換エラー: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("JSONファイルの保存エラー: %w", err)
	}
	return nil
}
