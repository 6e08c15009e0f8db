package nace_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/service/nace"
)

func testTable() []model.NaceClassification {
	return []model.NaceClassification{
		{Code: "01.11.14", Activity: "Buğday tarımı", DangerClass: types.DangerClassLow},
		{Code: "01.11.15", Activity: "Arpa tarımı", DangerClass: types.DangerClassLow},
		{Code: "05.10.02", Activity: "Taş kömürü madenciliği", DangerClass: types.DangerClassHigh},
		{Code: "41.20.02", Activity: "İkamet amaçlı bina inşaatı", DangerClass: types.DangerClassHigh},
		{Code: "86.10.10", Activity: "Hastane hizmetleri", DangerClass: types.DangerClassMedium},
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	svc := nace.New(testTable())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain digits", input: "011114", want: "01.11.14"},
		{name: "dotted input", input: "01.11.14", want: "01.11.14"},
		{name: "input with noise", input: " 01-11-14 ", want: "01.11.14"},
		{name: "another entry", input: "861010", want: "86.10.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, suggestions, err := svc.Resolve(tt.input)
			gt.NoError(t, err)
			gt.V(t, cls.Code).Equal(tt.want)
			gt.A(t, suggestions).Length(0)
		})
	}
}

func TestFormatCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare digits", "011114", "01.11.14", true},
		{"already canonical", "01.11.14", "01.11.14", true},
		{"mixed separators", "01-11/14", "01.11.14", true},
		{"too short", "0111", "", false},
		{"too long", "01111455", "", false},
		{"no digits", "abc", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := nace.FormatCode(tc.input)
			if tc.ok {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tc.want)
			} else {
				gt.Error(t, err)
				gt.B(t, errors.Is(err, nace.ErrInvalidCode)).True()
			}
		})
	}
}

func TestResolve_InvalidFormat(t *testing.T) {
	svc := nace.New(testTable())

	for _, input := range []string{"", "12345", "1234567", "abc", "01.11"} {
		t.Run("input "+input, func(t *testing.T) {
			_, _, err := svc.Resolve(input)
			gt.Error(t, err)
			gt.B(t, errors.Is(err, nace.ErrInvalidCode)).True()
		})
	}
}

func TestResolve_Suggestions(t *testing.T) {
	svc := nace.New(testTable())

	// 011116 matches no entry; the two 01.11.1x entries share 5 leading
	// digits and must outrank everything else.
	cls, suggestions, err := svc.Resolve("011116")
	gt.Error(t, err)
	gt.B(t, errors.Is(err, nace.ErrCodeNotFound)).True()
	gt.V(t, cls).Nil()
	gt.A(t, suggestions).Length(3)

	gt.V(t, suggestions[0].Code).Equal("01.11.14")
	gt.V(t, suggestions[1].Code).Equal("01.11.15")
	gt.V(t, suggestions[0].PrefixLength).Equal(5)
	gt.V(t, suggestions[1].PrefixLength).Equal(5)
}

func TestResolve_ScenarioWheatFarming(t *testing.T) {
	svc := nace.New([]model.NaceClassification{
		{Code: "01.11.14", Activity: "Buğday tarımı", DangerClass: types.DangerClassLow},
	})

	cls, suggestions, err := svc.Resolve("011114")
	gt.NoError(t, err)
	gt.V(t, cls.Activity).Equal("Buğday tarımı")
	gt.V(t, cls.DangerClass).Equal(types.DangerClassLow)
	gt.A(t, suggestions).Length(0)

	cls, suggestions, err = svc.Resolve("011115")
	gt.Error(t, err)
	gt.B(t, errors.Is(err, nace.ErrCodeNotFound)).True()
	gt.V(t, cls).Nil()
	gt.A(t, suggestions).Length(1)
	gt.V(t, suggestions[0].Code).Equal("01.11.14")
	gt.V(t, suggestions[0].Distance).Equal(1)
	gt.V(t, suggestions[0].PrefixLength).Equal(5)
}

func TestResolve_SuggestionOrderIsStable(t *testing.T) {
	// Two entries with identical distance and prefix to the query keep
	// their table order.
	svc := nace.New([]model.NaceClassification{
		{Code: "20.00.01", Activity: "first"},
		{Code: "20.00.02", Activity: "second"},
	})

	_, suggestions, err := svc.Resolve("200009")
	gt.Error(t, err)
	gt.A(t, suggestions).Length(2)
	gt.V(t, suggestions[0].Activity).Equal("first")
	gt.V(t, suggestions[1].Activity).Equal("second")
}

func TestParse_FiltersMalformedCodes(t *testing.T) {
	csv := strings.Join([]string{
		`01.11.14,Buğday tarımı,Az Tehlikeli`,
		`not-a-code,Bozuk satır,Tehlikeli`,
		`01.11,Kısa kod,Tehlikeli`,
		`05.10.02,Taş kömürü madenciliği,Çok Tehlikeli`,
	}, "\n")

	svc, err := nace.Parse(strings.NewReader(csv))
	gt.NoError(t, err)
	gt.V(t, svc.Len()).Equal(2)

	cls, _, err := svc.Resolve("051002")
	gt.NoError(t, err)
	gt.V(t, cls.DangerClass).Equal(types.DangerClassHigh)
}

func TestParse_RowWithoutDangerClass(t *testing.T) {
	svc, err := nace.Parse(strings.NewReader("01.11.14,Buğday tarımı\n"))
	gt.NoError(t, err)

	cls, _, err := svc.Resolve("011114")
	gt.NoError(t, err)
	gt.V(t, cls.DangerClass).Equal(types.DangerClassUnspecified)
}
