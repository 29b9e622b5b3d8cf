package uniparc

import (
	"strings"
	"testing"

	uderrors "github.com/jacoelho/unidump/errors"
)

const sampleEntry = `<entry dataset="uniparc">
  <accession>UPI0000000001</accession>
  <dbReference type="UniProtKB/Swiss-Prot" id="P0DI82" version_i="1" version="1" active="Y" created="2011-06-28" last="2022-08-03">
    <property type="NCBI_taxonomy_id" value="9606"/>
    <property type="protein_name" value="TRM112-like protein"/>
  </dbReference>
  <dbReference type="EMBL" id="BAA91410" version_i="2" active="N"/>
  <sequence length="125" checksum="14A41C1A0D8EB13C">MKFLTHNLLS
SHVRGVVSRA</sequence>
</entry>`

func TestDecodeEntry(t *testing.T) {
	entry, err := DecodeEntry(strings.NewReader(sampleEntry))
	if err != nil {
		t.Fatalf("DecodeEntry() error = %v", err)
	}

	if entry.Dataset != "uniparc" {
		t.Errorf("Dataset = %q", entry.Dataset)
	}
	if entry.Accession != "UPI0000000001" {
		t.Errorf("Accession = %q", entry.Accession)
	}
	if got, want := len(entry.DbReferences), 2; got != want {
		t.Fatalf("len(DbReferences) = %d, want %d", got, want)
	}

	first := entry.DbReferences[0]
	if first.Type != "UniProtKB/Swiss-Prot" || first.ID != "P0DI82" {
		t.Errorf("DbReferences[0] = %+v", first)
	}
	if first.VersionI != 1 || first.Version != 1 {
		t.Errorf("DbReferences[0] versions = %d/%d, want 1/1", first.VersionI, first.Version)
	}
	if !first.Active {
		t.Error("DbReferences[0].Active = false, want true")
	}
	if first.Created != "2011-06-28" || first.Last != "2022-08-03" {
		t.Errorf("DbReferences[0] dates = %q/%q", first.Created, first.Last)
	}
	if got, want := len(first.Properties), 2; got != want {
		t.Errorf("len(DbReferences[0].Properties) = %d, want %d", got, want)
	}

	second := entry.DbReferences[1]
	if second.Active {
		t.Error("DbReferences[1].Active = true, want false")
	}
	if second.Version != 0 {
		t.Errorf("DbReferences[1].Version = %d, want 0", second.Version)
	}

	if entry.Sequence.Length != 125 {
		t.Errorf("Sequence.Length = %d, want 125", entry.Sequence.Length)
	}
	if got, want := entry.Sequence.Value, "MKFLTHNLLSSHVRGVVSRA"; got != want {
		t.Errorf("Sequence.Value = %q, want %q", got, want)
	}
}

func TestDecodeEntryActiveDefaultsToTrue(t *testing.T) {
	const doc = `<entry>
  <accession>UPI0000000002</accession>
  <dbReference type="EMBL" id="X" version_i="1"/>
  <sequence length="1" checksum="00">M</sequence>
</entry>`

	entry, err := DecodeEntry(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeEntry() error = %v", err)
	}
	if !entry.DbReferences[0].Active {
		t.Error("Active = false, want true when attribute absent")
	}
}

func TestDecodeEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code uderrors.ErrorCode
	}{
		{
			name: "missing accession",
			doc:  `<entry><sequence length="1" checksum="00">M</sequence></entry>`,
			code: uderrors.ErrMissingElement,
		},
		{
			name: "missing sequence",
			doc:  `<entry><accession>UPI1</accession></entry>`,
			code: uderrors.ErrMissingElement,
		},
		{
			name: "missing version_i",
			doc: `<entry>
  <accession>UPI1</accession>
  <dbReference type="EMBL" id="X"/>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrMissingAttribute,
		},
		{
			name: "invalid active flag",
			doc: `<entry>
  <accession>UPI1</accession>
  <dbReference type="EMBL" id="X" version_i="1" active="yes"/>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrInvalidValue,
		},
		{
			name: "duplicate sequence",
			doc: `<entry>
  <accession>UPI1</accession>
  <sequence length="1" checksum="00">M</sequence>
  <sequence length="1" checksum="00">M</sequence>
</entry>`,
			code: uderrors.ErrDuplicateElement,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEntry(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("DecodeEntry() error = nil, want error")
			}
			if !uderrors.Is(err, tc.code) {
				t.Errorf("DecodeEntry() error = %v, want code %s", err, tc.code)
			}
		})
	}
}
