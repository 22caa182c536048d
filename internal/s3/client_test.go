package s3

import "testing"

func TestKeyPrefixing(t *testing.T) {
	c := &Client{bucket: "b", prefix: "backups/host1"}

	if got := c.fullKey("etc.20250226120000.tgz"); got != "backups/host1/etc.20250226120000.tgz" {
		t.Errorf("fullKey = %q", got)
	}
	if got := c.relativeKey("backups/host1/etc.20250226120000.tgz"); got != "etc.20250226120000.tgz" {
		t.Errorf("relativeKey = %q", got)
	}

	bare := &Client{bucket: "b"}
	if got := bare.fullKey("/x/"); got != "x" {
		t.Errorf("fullKey without prefix = %q", got)
	}
	if got := bare.relativeKey("x"); got != "x" {
		t.Errorf("relativeKey without prefix = %q", got)
	}
}
