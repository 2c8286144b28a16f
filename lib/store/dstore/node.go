package dstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/config"
)

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// NodeConfig holds the parameters of a RAFT replica hosting a dstore shard.
type NodeConfig struct {
	ShardID            uint64
	ReplicaID          uint64
	RaftAddress        string
	ClusterMembers     map[uint64]string // empty = single replica cluster of this node
	DataDir            string
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	Timeout            time.Duration
}

// DefaultNodeConfig returns the configuration of a single replica listening on localhost
func DefaultNodeConfig(dataDir string) NodeConfig {
	return NodeConfig{
		ShardID:            1,
		ReplicaID:          1,
		RaftAddress:        "localhost:63001",
		DataDir:            dataDir,
		RTTMillisecond:     10,
		SnapshotEntries:    1000,
		CompactionOverhead: 500,
		Timeout:            5 * time.Second,
	}
}

// ToDragonboatConfig converts the NodeConfig to a Dragonboat shard Config
func (c *NodeConfig) ToDragonboatConfig() config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            c.ShardID,
		ElectionRTT:        electionRTTFactor,
		HeartbeatRTT:       heartbeatRTTFactor,
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *NodeConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.RaftAddress,
	}
}

// members returns the initial cluster members
func (c *NodeConfig) members() map[uint64]string {
	if len(c.ClusterMembers) > 0 {
		return c.ClusterMembers
	}
	return map[uint64]string{c.ReplicaID: c.RaftAddress}
}

// String returns a formatted string representation of the configuration
func (c *NodeConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}
	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Node Identity")
	addField("RAFT Address", c.RaftAddress)
	addField("Replica ID", strconv.FormatUint(c.ReplicaID, 10))
	addField("Shard ID", strconv.FormatUint(c.ShardID, 10))

	addSection("RAFT Parameters")
	addField("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
	addField("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
	addField("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
	addField("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
	addField("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))
	addField("Timeout", c.Timeout.String())

	addSection("Storage")
	addField("Data Directory", c.DataDir)

	return sb.String()
}

// StartNode creates a NodeHost, starts the replica and waits until the shard has a leader.
// The caller owns the returned NodeHost and has to Close it.
func StartNode(conf NodeConfig, dbFactory store.DBFactory) (*dragonboat.NodeHost, store.IStore, error) {
	nh, err := dragonboat.NewNodeHost(conf.ToNodeHostConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create node host: %w", err)
	}

	if err := nh.StartConcurrentReplica(conf.members(), false, CreateStateMachineFactory(dbFactory), conf.ToDragonboatConfig()); err != nil {
		nh.Close()
		return nil, nil, fmt.Errorf("failed to start shard %d: %w", conf.ShardID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout)
	defer cancel()
	if err := waitForLeader(ctx, nh, conf.ShardID); err != nil {
		nh.Close()
		return nil, nil, err
	}

	log.Infof("shard %d ready on %s", conf.ShardID, conf.RaftAddress)
	return nh, NewDistributedStore(nh, conf.ShardID, conf.Timeout), nil
}

func waitForLeader(ctx context.Context, nh *dragonboat.NodeHost, shardID uint64) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, _, valid, err := nh.GetLeaderID(shardID); err == nil && valid {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("no leader elected for shard %d: %w", shardID, ctx.Err())
		case <-ticker.C:
		}
	}
}
