package ai

import (
	"fmt"
	"strings"
)

const factSystemPrompt = "Sen kısa, doğru ve verilen kategoriye sadık kalan bir asistansın."

const questionSystemPrompt = "Sen güvenilir bir quiz soru üreticisisin."

const statsSystemPrompt = "Kullanıcının quiz istatistiklerine göre detaylı ve motive edici yorumlar üret. Türkçe konuş."

func buildFactPrompt(category string, avoid []string) string {
	avoidText := ""
	if len(avoid) > 0 {
		var b strings.Builder
		for _, topic := range avoid {
			b.WriteString("  • ")
			b.WriteString(topic)
			b.WriteString("\n")
		}
		avoidText = b.String()
	}

	return strings.TrimSpace(fmt.Sprintf(`
Aşağıdaki kurallarla VERİLEN KATEGORİDE tam 1 adet ÖZGÜN ve doğrulanabilir Türkçe genel kültür bilgisi üret.

Sen bir "Günlük Genel Kültür Bilgisi Üretici Asistanısın".
Görevin: Sadece belirtilen kategoriye AİT, tek paragraf bir bilgi yazmak.

KATEGORİ (ZORUNLU): "%s"

KATEGORİ AÇIKLAMALARI (referans için):
- Tarih: Tarihi olaylar, savaşlar, devrimler, anlaşmalar, eski uygarlıklar, tarihsel dönemler.
- Bilim veya İcatlar: Doğa bilimleri, teknoloji, tıp, mühendislik, icatlar, keşifler, bilim insanları.
- Sanat: Resim, heykel, mimari akımlar, tiyatro, opera, sinema, fotoğraf, tasarım okulları.
- Coğrafya: Ülkeler, bölgeler, dağlar, nehirler, iklimler, ekosistemler, jeolojik oluşumlar.
- Edebiyat veya Dil: Romanlar, şiirler, yazarlar, edebi akımlar, diller, alfabeler, dilbilim.
- Spor veya Sağlık: Spor dalları, antrenman, olimpiyatlar, beslenme, genel sağlık bilgileri.

FORMAT KURALLARI:
- 70–90 kelime arasında olmalı.
- Tek paragraf, tek ana konu.
- Net, sade ve tarafsız bir anlatım kullan.
- Kesin bilgilere dayan; tarih/sayı uydurma.
- Popüler yanlış bilgi, belirsiz ifade, "rivayete göre" vb. kullanma.
- METİNDE kategori adını veya etiket YAZMA.

TEKRAR / KAÇINILACAKLAR:
- Aynı ülke, kişi veya temayı abartılı tekrar etme.
- Son günlerde kullanılan şu konu parçalarından KAÇIN (yakın varyasyonlar dahil):
%s
ÇIKTI KURALI:
- Sadece tek bir paragraf metin döndür.
- Başına numara, başlık, alıntı işareti vb. ekleme.

Şimdi "%s" kategorisine tam uyan 1 bilgi yaz.
`, category, avoidText, category))
}

func buildQuestionPrompt(factText string) string {
	return strings.TrimSpace(fmt.Sprintf(`
Aşağıdaki GENEL KÜLTÜR BİLGİSİ metnine göre tek soruluk 4 şıklı bir quiz hazırla.

Metin:
"""%s"""

Kurallar:
- Soruyu metindeki bilgiye DAYANDIR, uydurma bilgi ekleme.
- 1 tane NET doğru cevap olsun, diğer 3 şık makul ama yanlıştır.
- Cevaplar aynı uzunlukta/aynı ciddiyette olsun, bariz saçma şık verme.
- Çıkış formatın JSON olsun ve SADECE JSON döndür:

{
  "soru": "....?",
  "secenekler": ["A", "B", "C", "D"],
  "dogruIndex": 0
}
`, factText))
}

func buildImagePrompt(factText, category string) string {
	topic := safeImageTopic(factText, category)
	label := ""
	if category != "" {
		label = fmt.Sprintf("[%s] ", category)
	}
	return strings.TrimSpace(fmt.Sprintf(`
Genel kültür uygulaması için güvenli bir illüstrasyon üret.

Konu: %s%s

ZORUNLU KURALLAR:
- Yazı, harf, altyazı, logo, watermark YOK.
- İnsan çıplaklığı / erotik içerik YOK.
- Çocuk figürü YOK.
- Şiddet / kan / vahşet YOK.
- Yüz/portre yerine: manzara, nesne, sembol, bina, harita, doğa, bilimsel objeler.

Stil:
- Dijital illüstrasyon, eğitici ve nötr, temiz kompozisyon, sinematik ışık.
`, label, topic))
}

const fallbackImagePrompt = `Eğitici ve güvenli bir illüstrasyon üret.
Sahne: boş bir müze galerisi iç mekânı, uzaktan görünen çerçeveli tablolar, nötr ışık, yazı yok, insan yok.
Kurallar: çıplaklık yok, erotik yok, şiddet yok, logo/watermark yok.
Stil: dijital illüstrasyon, temiz kompozisyon.`

// safeImageTopic reduces a fact to a prompt-safe subject line. Art facts
// always map to a neutral museum scene since artwork descriptions trip
// the image model's safety filter most often.
func safeImageTopic(text, category string) string {
	if category == "Sanat" {
		return "müze galerisi, çerçeveli tablolar, heykel kaidesi, nötr aydınlatma"
	}
	t := strings.Join(strings.Fields(text), " ")
	first := t
	if idx := strings.IndexAny(t, ".!?"); idx > 0 {
		first = t[:idx]
	}
	runes := []rune(first)
	if len(runes) > 140 {
		return string(runes[:140])
	}
	return first
}
