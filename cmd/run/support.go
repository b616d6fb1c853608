package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/demo/demo_configs"
	"github.com/zintix-labs/matchlab/demo/demo_logic"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.GID
	worker    int
	player    int
	moves     int
	goal      int
	rounds    int
	seed      int64
	pprofmode string
}

type gidFlag struct{ p *spec.GID }

func (f gidFlag) String() string { return fmt.Sprint(uint(*f.p)) }
func (f gidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.GID(uint(u))
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(gidFlag{&cfg.id}, "game", "target board id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.IntVar(&cfg.moves, "moves", 30, "move budget per player")
	flag.IntVar(&cfg.goal, "goal", 100, "clear goal per player")
	flag.IntVar(&cfg.rounds, "rounds", 10000000, "rounds per worker")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() { // 取得round數
	cfg.valid() // 基本檢查

	lab, err := matchlab.NewAuto(
		core.Default(),
		matchlab.Configs(demo_configs.FS),
		matchlab.Logics(demo_logic.Logics),
	)
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	ent, _ := lab.EntryById(cfg.id)
	cfg.name = ent.Name
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.player == 1 { // 純盤面模擬
		if cfg.worker == 1 { // 單線程
			p.Printf("%s[BOARD:%s] [ROUNDS:%d]%s\n", green, cfg.name, cfg.rounds, reset)
			st, used, _ := s.Sim(cfg.rounds, true)
			st.StdOut(used)
		} else {
			p.Printf("%s[WORKERS:%d] [BOARD:%s] [ROUNDS:%d]%s\n", green, cfg.worker, cfg.name, cfg.worker*cfg.rounds, reset)
			st, used, _ := s.SimMP(cfg.rounds, cfg.worker, true) // 併發
			st.StdOut(used)
		}
	} else { // 模擬多玩家體驗
		p.Printf("%s[WORKERS:%d] [BOARD:%s] [PLAYERS:%d MOVES:%d GOAL:%d]%s\n", green, cfg.worker, cfg.name, cfg.player, cfg.moves, cfg.goal, reset)
		st, est, used, _ := s.SimPlayers(cfg.worker, cfg.player, cfg.moves, cfg.goal, true)
		st.StdOut(used)
		est.Out()
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 玩家檢查
	// 玩家數量 > 0
	if cfg.player < 1 {
		log.Fatal("value err : player must > 0")
	}
	// 玩家數量太多 resize
	if cfg.player > 100000 {
		p.Printf("too much players: %d resized to 100k players\n", cfg.player)
		cfg.player = 100000
	}

	// 模擬玩家行為的時候，目標消除數不能<1
	if cfg.player > 1 && cfg.goal < 1 {
		log.Fatal("value err : goal must >= 1")
	}

	// 局數檢查
	if cfg.rounds < 1 {
		log.Fatal("value err : rounds must > 0")
	}

	// 模擬玩家的時候，每個玩家最高不超過15000步(無意義)
	// 對一個玩家來說 1500步約1hr 15000步約10小時 體驗已經轉為長期，直接模擬長局數盤面即可
	if cfg.player > 1 && cfg.moves > 15000 {
		p.Printf("too much moves for each players : %d resized to 15k moves for each player\n", cfg.moves)
		cfg.moves = 15000
	}
}
