package records

import "testing"

func TestFormatParsesBack(t *testing.T) {
	recs, err := ParseString(SampleText + "-5-\tD0.25\n")
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseString(Format(recs))
	if err != nil {
		t.Fatalf("格式化结果无法解析: %v", err)
	}
	if len(again) != len(recs) {
		t.Fatalf("记录数不一致: %d vs %d", len(again), len(recs))
	}
	for i := range recs {
		if again[i] != recs[i] {
			t.Fatalf("第 %d 条不一致: %+v vs %+v", i, again[i], recs[i])
		}
	}
}
