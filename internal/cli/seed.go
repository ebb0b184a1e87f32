package cli

import (
	"context"
	"fmt"

	"burokasa/internal/core"
	"burokasa/internal/services"
)

// demoRecords is a small but realistic office: two case files with partial
// collections, a paid and an unpaid institutional file, recurring office
// expenses over three months and a handful of one-off costs.
var demoRecords = []struct {
	Kind core.SourceKind
	Raw  core.RawRecord
}{
	{core.KindCaseFile, core.RawRecord{
		"muvekkil": "Yılmaz İnşaat", "dosya_no": "2024/101",
		"avukatlik_ucreti": 45000.0,
		"tahsilat":         20000.0, "tahsilat_tarihi": "2024-01-18",
	}},
	{core.KindCaseFile, core.RawRecord{
		"muvekkil": "Demir Tekstil", "dosya_no": "2024/102",
		"avukatlik_ucreti": 30000.0,
		"tahsil_edilen":    30000.0, "tahsilat_tarihi": "2024-02-22",
	}},
	{core.KindCaseFile, core.RawRecord{
		"muvekkil": "Kaya Lojistik", "dosya_no": "2024/103",
		"avukatlik_ucreti": 25000.0,
	}},
	{core.KindInstitutionFile, core.RawRecord{
		"kurum": "SGK", "tahsil_tutar": 120000.0, "vekalet_orani": 10.0,
		"odendi": true, "odenenTarih": "2024-02-09",
	}},
	{core.KindInstitutionFile, core.RawRecord{
		"kurum": "Belediye", "tahsil_tutar": 80000.0, "vekalet_orani": 8.0,
		"odendi": false,
	}},
	{core.KindOfficeExpense, core.RawRecord{
		"aciklama": "Ofis kirası", "tutar": 12000.0, "tarih": "2024-01-05",
	}},
	{core.KindOfficeExpense, core.RawRecord{
		"aciklama": "Ofis kirası", "tutar": 12000.0, "tarih": "2024-02-05",
	}},
	{core.KindOfficeExpense, core.RawRecord{
		"aciklama": "Ofis kirası", "tutar": 12000.0, "tarih": "2024-03-05",
	}},
	{core.KindOfficeExpense, core.RawRecord{
		"aciklama": "Kırtasiye", "tutar": 850.0, "tarih": "2024-02-14",
	}},
	{core.KindInstitutionExpense, core.RawRecord{
		"aciklama": "Dosya masrafı", "kurum": "SGK",
		"tutar": 1250.0, "tarih": "2024-02-01",
	}},
	{core.KindCaseExpense, core.RawRecord{
		"aciklama": "Bilirkişi ücreti", "dosya_id": "2024/101",
		"tutar": 3500.0, "tarih": "2024-01-25",
	}},
	{core.KindCaseExpense, core.RawRecord{
		"aciklama": "Harç", "dosya_id": "2024/102",
		"tutar": 920.0, "tarih": "2024-02-10",
	}},
}

// SeedDemoRecords inserts the demo office into the store. Returns the number
// of records written.
func SeedDemoRecords(ctx context.Context, store services.RecordStore) (int, error) {
	for i, rec := range demoRecords {
		if _, err := store.Insert(ctx, rec.Kind, rec.Raw); err != nil {
			return i, fmt.Errorf("seed %s record: %w", rec.Kind, err)
		}
	}
	return len(demoRecords), nil
}
