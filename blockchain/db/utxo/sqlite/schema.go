package sqlite

import "github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/dbshared"

var utxoSchema = []string{`
CREATE TABLE IF NOT EXISTS "` + dbshared.UtxoTable + `" (
  "block_height" INTEGER NOT NULL,
  "block_hash" TEXT NOT NULL,
  "tx_hash" TEXT NOT NULL,
  "tx_index" INTEGER NOT NULL,
  "script_type" TEXT NOT NULL,
  "address" TEXT NOT NULL,
  "value" NUMERIC NOT NULL,
  "spent" BOOLEAN NOT NULL DEFAULT 0,
  "spent_height" INTEGER DEFAULT NULL,
  PRIMARY KEY ("tx_hash", "tx_index")
);`,
	`CREATE INDEX IF NOT EXISTS "` + dbshared.TxHashIndex + `" ON "` + dbshared.UtxoTable + `"(tx_hash);`,
	`CREATE INDEX IF NOT EXISTS "` + dbshared.BlockHeightIndex + `" ON "` + dbshared.UtxoTable + `"(block_height);`,
	`CREATE INDEX IF NOT EXISTS "` + dbshared.AddrSpentIndex + `" ON "` + dbshared.UtxoTable + `"(address, spent);`,
}
