package main

import (
	"context"
	"time"

	mongoutil "NagarSeva/data/database/mgo/mongoutil"
	"NagarSeva/global"
	"NagarSeva/logger"
	"NagarSeva/module/issue/seq"
	issuestore "NagarSeva/module/issue/store"
	"NagarSeva/module/urgency"
	userservice "NagarSeva/module/user/service"
	"NagarSeva/module/webhook/flow"
	"NagarSeva/module/webhook/session"
	"NagarSeva/service/mgo"
	redissvc "NagarSeva/service/storage/redis"
	"NagarSeva/tools/security"
)

func main() {
	defer logger.Sync()

	if err := global.Load(); err != nil {
		logger.Errorf("config load: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mgo.Init(ctx, &mongoutil.Config{
		Uri:      global.Config.MongoURI,
		Database: global.Config.MongoDatabase,
	}); err != nil {
		logger.Errorf("mongo init: %v", err)
		return
	}
	db := mgo.GetDB()

	var sessions session.Store = session.NewMemoryStore()
	if global.Config.SessionBackend == "redis" {
		if err := redissvc.InitRedis(redissvc.Config{
			Addr:     global.Config.RedisAddr,
			Password: global.Config.RedisPassword,
			DB:       global.Config.RedisDB,
		}); err != nil {
			logger.Errorf("redis init: %v", err)
			return
		}
		defer redissvc.CloseRedis()
		sessions = session.NewRedisStore(redissvc.GetRedis())
		logger.Info("session store: redis")
	} else {
		logger.Info("session store: in-memory")
	}

	issues := issuestore.New(db)
	sequencer := seq.New(&seq.MongoCounters{DB: db})
	classifier := urgency.New(global.Config.ClassifierURL, global.Config.ClassifierTimeout)
	machine := flow.NewMachine(sessions, issues, sequencer, classifier)

	users := userservice.New(db, security.DefaultOptions(global.JWTSecret()))

	r := newRouter(deps{
		machine: machine,
		issues:  issues,
		users:   users,
		jwtOpts: security.DefaultOptions(global.JWTSecret()),
	})

	addr := ":" + global.Config.Port
	logger.Infof("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
