package render

import (
	"io"
)

// explanation summarizes the rule set the allocator applies
const explanation = `Penjelasan Singkat Faraidh

Faraidh adalah pembagian harta warisan menurut syariat Islam.

Prinsip (versi aplikasi ini):
- Ada bagian tetap (ashabul furudh) dan bagian residu (ashabah).
- Ayah 1/6 bila ada anak; bila tidak ada anak, ayah menerima seluruh sisa.
- Ibu 1/6 bila ada anak, 1/3 bila tidak ada anak.
- Suami 1/4 bila ada anak, 1/2 bila tidak ada anak.
- Istri 1/8 bila ada anak, 1/4 bila tidak ada anak.
- Jika hanya anak perempuan: 1 anak = 1/2; 2+ anak = 2/3 (bagian tetap).
- Jika ada anak laki-laki, anak laki-laki dan perempuan menerima sisa (ashabah) dengan rasio 2:1.
- Bila bagian tetap melebihi harta dan tidak ada anak laki-laki, semua bagian dikurangi secara proporsional ('aul).
- Sisa yang tidak diterima siapa pun dicatat sebagai "Sisa (tidak terdistribusi)".

Catatan: Aplikasi ini merupakan simulasi sederhana dan tidak menggantikan fatwa resmi fiqih waris.
`

// WriteExplanation writes a short summary of the inheritance rules
func WriteExplanation(w io.Writer) error {
	_, err := io.WriteString(w, explanation)
	return err
}
