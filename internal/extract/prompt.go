package extract

import "strings"

const systemPrompt = `Sen bir Excel veri analiz uzmanısın. Sana verilen Excel satırlarını analiz edip yapılandırılmış JSON formatında döndüreceksin.

Excel formatı: Her satır "[satır] SÜTUN:değer | SÜTUN:değer" şeklinde. Satırlar "--- BÖLÜM (Satır x-y) ---" başlıkları altında gruplanmıştır.

Tespit etmen gereken kategoriler:

1. KAPTANLAR (captains): CAPTAIN, J. CAPTAIN, INCHARGE pozisyonundaki kişiler
2. SÜPERVİZÖRLER (supervisors): SPVR pozisyonundaki kişiler
3. LOCA KAPTANLARI (locaCaptains): LOCA bölümündeki kaptanlar
4. EXTRA PERSONEL (extraPersonnel): "EXTRA PERSONEL" başlığı altındaki kişiler ("BACKROUND" olanları isBackground: true)
5. DESTEK EKİBİ (supportTeamMembers): "DESTEK EKİBİ" başlığı altındaki kişiler ("GELMEYECEK" olanları isNotComing: true)
6. HİZMET NOKTALARI (servicePoints): BAR, DEPO, FUAYE, CASINO başlıkları altındaki personel

Vardiya: "16:00-K" = 16:00-06:00 (K = Kapanış)

SADECE JSON döndür, açıklama ekleme.`

const responseTemplate = `{"captains":[{"name":"...","position":"CAPTAIN","shift":"..."}],"supervisors":[{"name":"...","shift":"..."}],"locaCaptains":[{"name":"...","shift":"..."}],"extraPersonnel":[{"name":"...","tables":"...","shift":"...","isBackground":false}],"supportTeamMembers":[{"name":"...","position":"...","assignment":"...","shift":"...","teamName":"CRYSTAL DESTEK EKİBİ","isNotComing":false}],"servicePoints":[],"tableAssignments":[]}`

// SystemPrompt returns the fixed instruction sent with every roster request.
func SystemPrompt() string { return systemPrompt }

// UserPrompt wraps the serialized sheet with the expected response shape.
func UserPrompt(sheetText string) string {
	var b strings.Builder
	b.WriteString("Excel verisi:\n\n")
	b.WriteString(sheetText)
	b.WriteString("\n\nJSON formatı:\n")
	b.WriteString(responseTemplate)
	return b.String()
}
