package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gobeampay/config"
	"gobeampay/types"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

var pool *redis.Pool

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

func Init() {
	redisAddr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	pool = &redis.Pool{
		MaxIdle: 5,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr, timeoutDialOptions()...) },
	}
}

// GetChainSyncedBlock returns the last scanned block for a chain, -1 when
// the chain has never been scanned.
func GetChainSyncedBlock(chainName string) (int64, error) {
	conn := pool.Get()
	defer conn.Close()

	blockHeight, err := redis.Int64(conn.Do("GET", fmt.Sprintf("chainBlockScanned:%s", chainName)))
	if err == nil {
		return blockHeight, nil
	}

	if errors.Is(err, redis.ErrNil) {
		return -1, nil
	}

	log.Printf("error Redis get: %s", err.Error())
	return -1, err
}

func SetChainSyncedBlock(chainName string, blockHeight int64) error {
	conn := pool.Get()
	defer conn.Close()

	_, err := conn.Do("SET", fmt.Sprintf("chainBlockScanned:%s", chainName), blockHeight)
	if err != nil {
		log.Printf("error Redis set: %s", err.Error())
		return err
	}

	return nil
}

// note that multiple sets should not contain one record
func UpsertSettlementRecord(rec *types.SettlementRecord) error {
	conn := pool.Get()
	defer conn.Close()

	if rec == nil {
		return errors.New("null object to store")
	}

	if rec.Status == "" {
		return errors.New("settlement record cannot have empty status")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	recordKey := fmt.Sprintf("settlement:%s:%s", rec.Status, rec.ID)

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cannot marshal settlement record to JSON: %s", err.Error())
	}

	_, err = conn.Do("SET", recordKey, recJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	// also add the key to the corresponding SET
	_, err = conn.Do("SADD", config.SettlementStatusSets[rec.Status], recordKey)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

func ChangeSettlementRecordStatus(rec *types.SettlementRecord, prevStatus string) error {
	conn := pool.Get()
	defer conn.Close()

	if rec == nil {
		return errors.New("null object to store")
	}

	if rec.Status == "" {
		return errors.New("settlement record cannot have empty status")
	}

	prevRecordKey := fmt.Sprintf("settlement:%s:%s", prevStatus, rec.ID)
	recordKey := fmt.Sprintf("settlement:%s:%s", rec.Status, rec.ID)

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cannot marshal settlement record to JSON: %s", err.Error())
	}

	_, err = conn.Do("SREM", config.SettlementStatusSets[prevStatus], prevRecordKey)
	if err != nil {
		log.Printf("error Redis SREM: %s", err.Error())
		return err
	}

	_, err = conn.Do("DEL", prevRecordKey)
	if err != nil {
		log.Printf("error Redis DEL: %s", err.Error())
		return err
	}

	_, err = conn.Do("SET", recordKey, recJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	_, err = conn.Do("SADD", config.SettlementStatusSets[rec.Status], recordKey)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

// FindSettlementRecordByOrder scans all status sets for the newest record
// matching an order id. Processed records should eventually be pruned,
// otherwise this O(n) scan degrades.
func FindSettlementRecordByOrder(orderID int64) (*types.SettlementRecord, error) {
	var newest *types.SettlementRecord
	for status := range config.SettlementStatusSets {
		recs, err := FindAllSettlementRecordsByStatus(status)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if rec.OrderID != orderID {
				continue
			}
			if newest == nil || rec.TsCreated > newest.TsCreated {
				newest = rec
			}
		}
	}
	return newest, nil
}

func FindAllSettlementRecordsByStatus(status string) ([]*types.SettlementRecord, error) {
	conn := pool.Get()
	defer conn.Close()

	if _, ok := config.SettlementStatusSets[status]; !ok {
		return nil, errors.New("redis key not found for status")
	}

	recs := make([]*types.SettlementRecord, 0)

	// scan every record present in Redis
	var cursor int64

	for {
		values, err := redis.Values(conn.Do("SSCAN", config.SettlementStatusSets[status], cursor))
		if err != nil {
			return nil, err
		}

		var recKeys []string
		values, err = redis.Scan(values, &cursor, &recKeys)
		if err != nil {
			return nil, err
		}

		for _, key := range recKeys {
			raw, err := redis.Bytes(conn.Do("GET", key))
			if errors.Is(err, redis.ErrNil) {
				// record expired between SSCAN and GET
				continue
			}
			if err != nil {
				log.Printf("error Redis GET: %s", err.Error())
				return nil, err
			}

			var rec types.SettlementRecord
			err = json.Unmarshal(raw, &rec)
			if err != nil {
				return nil, err
			}
			if rec.Status == status {
				recs = append(recs, &rec)
			}
		}

		if cursor == 0 {
			break
		}
	}

	return recs, nil
}
