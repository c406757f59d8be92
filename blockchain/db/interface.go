package db

import (
	"github.com/raidoNetwork/ledgerxfr/blockchain/db/iface"
)

type OutputStorage = iface.OutputStorage

type OutputReader = iface.OutputReader

type OutputDatabase = iface.OutputDatabase

type RunJournal = iface.RunJournal

type SQLConfig = iface.SQLConfig
