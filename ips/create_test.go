package ips

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

// roundTrip creates a patch from original to modified, serializes it,
// applies it to a copy of original and returns the result.
func roundTrip(t *testing.T, original, modified []byte, useRLE bool) ([]byte, *Patch) {
	t.Helper()

	p, err := Create(original, modified, useRLE)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	target := NewBuffer(original)
	n, err := Apply(target, &buf)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != len(p.Records) {
		t.Errorf("applied %d records, patch has %d", n, len(p.Records))
	}

	return target.Bytes(), p
}

func TestCreateSingleByte(t *testing.T) {
	original := []byte{0, 1, 2, 3, 4}
	modified := []byte{0, 9, 2, 3, 4}

	got, p := roundTrip(t, original, modified, false)

	want := []*Record{{Offset: 1, Size: 1, Data: []byte{9}}}
	if !reflect.DeepEqual(p.Records, want) {
		t.Errorf("Got records %v, want %v", p.Records, want)
	}
	if p.HasTruncate {
		t.Errorf("equal length patch truncates")
	}
	if !bytes.Equal(got, modified) {
		t.Errorf("Got %v, want %v", got, modified)
	}
}

func TestCreateIdentical(t *testing.T) {
	b := []byte{1, 2, 3}
	p, err := Create(b, b, true)
	if err != nil || len(p.Records) != 0 || p.HasTruncate {
		t.Errorf("Got (%v, %v), want an empty patch", p, err)
	}
}

func TestCreateSpans(t *testing.T) {
	cases := []struct {
		original, modified []byte
		want               []*Record
	}{
		{
			[]byte{0, 0, 0, 0, 0, 0},
			[]byte{1, 1, 0, 0, 2, 0},
			[]*Record{{Offset: 0, Size: 2, Data: []byte{1, 1}}, {Offset: 4, Size: 1, Data: []byte{2}}},
		},
		{
			[]byte{0, 0},
			[]byte{0, 0, 5, 6},
			[]*Record{{Offset: 2, Size: 2, Data: []byte{5, 6}}},
		},
		{
			// trailing bytes past the original are emitted even when zero
			[]byte{7},
			[]byte{7, 0},
			[]*Record{{Offset: 1, Size: 1, Data: []byte{0}}},
		},
	}

	for i, tc := range cases {
		got, p := roundTrip(t, tc.original, tc.modified, false)
		if !reflect.DeepEqual(p.Records, tc.want) {
			t.Errorf("%d: Got records %v, want %v", i, p.Records, tc.want)
		}
		if !bytes.Equal(got, tc.modified) {
			t.Errorf("%d: Got %v, want %v", i, got, tc.modified)
		}
	}
}

func TestCreateShrink(t *testing.T) {
	original := []byte{0, 1, 2, 3, 4, 5}
	modified := []byte{0, 8, 2}

	got, p := roundTrip(t, original, modified, false)
	if !p.HasTruncate || p.Truncate != 3 {
		t.Errorf("Truncate = (%d, %t), want (3, true)", p.Truncate, p.HasTruncate)
	}
	if !bytes.Equal(got, modified) {
		t.Errorf("Got %v, want %v", got, modified)
	}
}

func TestCreateRLE(t *testing.T) {
	original := make([]byte, 64)
	modified := make([]byte, 64)
	modified[2] = 1
	for i := 10; i < 30; i++ {
		modified[i] = 0xEE
	}
	modified[30] = 4

	got, p := roundTrip(t, original, modified, true)
	want := []*Record{
		{Offset: 2, Size: 1, Data: []byte{1}},
		{Offset: 10, RLE: true, Size: 20, Data: []byte{0xEE}},
		{Offset: 30, Size: 1, Data: []byte{4}},
	}
	if !reflect.DeepEqual(p.Records, want) {
		t.Errorf("Got records %v, want %v", p.Records, want)
	}
	if !bytes.Equal(got, modified) {
		t.Errorf("round trip mismatch")
	}

	// short runs stay literal
	modified = make([]byte, 64)
	for i := 0; i < RLE_MIN_RUN-1; i++ {
		modified[i] = 3
	}
	_, p = roundTrip(t, original, modified, true)
	if len(p.Records) != 1 || p.Records[0].RLE {
		t.Errorf("Got %v, want one literal record", p.Records)
	}
}

func TestCreateLongSpan(t *testing.T) {
	original := make([]byte, 2*MAX_SIZE+10)
	modified := bytes.Repeat([]byte{1, 2}, len(original)/2)

	got, p := roundTrip(t, original, modified, false)
	if len(p.Records) != 3 {
		t.Errorf("Got %d records, want 3", len(p.Records))
	}
	for i, rec := range p.Records {
		if rec.Size > MAX_SIZE {
			t.Errorf("%d: record size %d", i, rec.Size)
		}
	}
	if !bytes.Equal(got, modified) {
		t.Errorf("round trip mismatch")
	}

	// a long run splits into several RLE records
	modified = bytes.Repeat([]byte{5}, len(original))
	got, p = roundTrip(t, original, modified, true)
	if len(p.Records) != 3 || !p.Records[0].RLE {
		t.Errorf("Got %v, want 3 rle records", p.Records)
	}
	if !bytes.Equal(got, modified) {
		t.Errorf("rle round trip mismatch")
	}
}

func TestCreateAvoidsEOFOffset(t *testing.T) {
	original := make([]byte, EOF_OFFSET+16)
	for _, useRLE := range []bool{false, true} {
		modified := make([]byte, len(original))
		for i := EOF_OFFSET; i < EOF_OFFSET+12; i++ {
			modified[i] = 0x42
		}

		got, p := roundTrip(t, original, modified, useRLE)
		for i, rec := range p.Records {
			if rec.Offset == EOF_OFFSET {
				t.Errorf("rle=%t: record %d starts at the end marker offset", useRLE, i)
			}
		}
		if !bytes.Equal(got, modified) {
			t.Errorf("rle=%t: round trip mismatch", useRLE)
		}
	}
}

func TestPatchCorrectness(t *testing.T) {
	f := func(original, modified []byte, useRLE bool) bool {
		if len(modified) > len(original) {
			modified = modified[:len(original)]
		} else {
			original = original[:len(modified)]
		}
		got, _ := roundTrip(t, original, modified, useRLE)
		return bytes.Equal(got, modified)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPatchCorrectnessSparse(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		original := make([]byte, rng.Intn(4096))
		rng.Read(original)

		modified := append([]byte(nil), original...)
		for n := rng.Intn(32); n > 0 && len(modified) > 0; n-- {
			at := rng.Intn(len(modified))
			run := rng.Intn(20)
			for j := at; j < at+run && j < len(modified); j++ {
				modified[j] = byte(rng.Intn(3))
			}
		}
		switch rng.Intn(3) {
		case 0:
			modified = append(modified, make([]byte, rng.Intn(64))...)
		case 1:
			modified = modified[:rng.Intn(len(modified)+1)]
		}

		for _, useRLE := range []bool{false, true} {
			if got, _ := roundTrip(t, original, modified, useRLE); !bytes.Equal(got, modified) {
				t.Errorf("%d: rle=%t: round trip mismatch", i, useRLE)
			}
		}
	}
}
