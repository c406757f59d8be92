package postgres

import "github.com/raidoNetwork/ledgerxfr/blockchain/db/utxo/dbshared"

var utxoSchema = []string{`
CREATE TABLE IF NOT EXISTS ` + dbshared.UtxoTable + ` (
   block_height BIGINT NOT NULL
  ,block_hash   VARCHAR(64) NOT NULL
  ,tx_hash      VARCHAR(64) NOT NULL
  ,tx_index     INTEGER NOT NULL
  ,script_type  VARCHAR(32) NOT NULL
  ,address      VARCHAR(128) NOT NULL
  ,value        NUMERIC(24, 8) NOT NULL
  ,spent        BOOLEAN NOT NULL DEFAULT FALSE
  ,spent_height BIGINT
  ,PRIMARY KEY (tx_hash, tx_index)
);`,
	`CREATE INDEX IF NOT EXISTS ` + dbshared.TxHashIndex + ` ON ` + dbshared.UtxoTable + ` USING HASH (tx_hash);`,
	`CREATE INDEX IF NOT EXISTS ` + dbshared.BlockHeightIndex + ` ON ` + dbshared.UtxoTable + ` (block_height);`,
	`CREATE INDEX IF NOT EXISTS ` + dbshared.AddrSpentIndex + ` ON ` + dbshared.UtxoTable + ` (address, spent);`,
}
