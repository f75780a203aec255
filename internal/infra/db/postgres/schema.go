package postgres

// Schema is the ledger DDL. Applied by cmd/setup and the integration test
// harness; statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS credit_types (
  sku              TEXT PRIMARY KEY,
  name             TEXT NOT NULL,
  default_quantity DOUBLE PRECISION NOT NULL CHECK (default_quantity > 0),
  is_monthly_free  BOOLEAN NOT NULL DEFAULT FALSE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS credits (
  id         UUID PRIMARY KEY,
  type_sku   TEXT NOT NULL REFERENCES credit_types(sku),
  user_id    TEXT NOT NULL,
  quantity   DOUBLE PRECISION NOT NULL,
  expiration TIMESTAMPTZ,
  payment_id TEXT,
  is_paid    BOOLEAN NOT NULL DEFAULT FALSE,
  issued_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_credits_user ON credits (user_id);
CREATE INDEX IF NOT EXISTS idx_credits_user_sku ON credits (user_id, type_sku);

CREATE TABLE IF NOT EXISTS consumption_records (
  id                TEXT PRIMARY KEY,
  credit_id         UUID NOT NULL REFERENCES credits(id),
  consumer_id       TEXT NOT NULL,
  quantity_consumed DOUBLE PRECISION NOT NULL,
  metadata          JSONB NOT NULL DEFAULT '{}'::jsonb,
  recorded_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_consumption_credit ON consumption_records (credit_id);
`
